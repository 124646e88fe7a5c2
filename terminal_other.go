//go:build !unix

package inline

import "golang.org/x/term"

func terminalSize(fd uintptr) (int, int, error) {
	return term.GetSize(int(fd))
}
