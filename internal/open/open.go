package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Editor returns $EDITOR, defaulting to less.
func Editor() string {
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "less"
}

// Args returns the arguments that make editor open filePath at lineNum.
func Args(editor, filePath string, lineNum int) []string {
	if lineNum < 1 {
		lineNum = 1
	}
	base := filepath.Base(editor)
	switch {
	case strings.Contains(base, "vi") || base == "nano":
		return []string{fmt.Sprintf("+%d", lineNum), filePath}
	case strings.Contains(base, "code"):
		return []string{"--goto", filePath + ":" + strconv.Itoa(lineNum)}
	case strings.Contains(base, "less"):
		return []string{"+" + strconv.Itoa(lineNum), filePath}
	default:
		return []string{filePath}
	}
}

// Command builds the editor command without attaching any terminal.
func Command(filePath string, lineNum int) *exec.Cmd {
	editor := Editor()
	return exec.Command(editor, Args(editor, filePath, lineNum)...)
}

// OpenFile opens filePath at lineNum in $EDITOR and waits for it to exit.
func OpenFile(filePath string, lineNum int) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file not found: %s", filePath)
	}

	cmd := Command(filePath, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
