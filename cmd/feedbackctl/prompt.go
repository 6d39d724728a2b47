package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/NomadCrew/feedback-service/types"
)

// promptConfirmer asks on the terminal before a delete. Only "y" or "yes"
// approves.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, fb types.Feedback) (bool, error) {
	if fb.Name != "" {
		fmt.Fprintf(p.out, "Delete feedback from %s: %q\n", fb.Name, truncate(fb.Message, 60))
	}
	fmt.Fprint(p.out, "Are you sure you want to delete this feedback? (y/N): ")

	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func alwaysConfirm(context.Context, types.Feedback) (bool, error) {
	return true, nil
}
