//go:build unix

package inline

import "golang.org/x/sys/unix"

func terminalSize(fd uintptr) (int, int, error) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}
