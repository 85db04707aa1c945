package attach

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// ProtocolVersion is the fixed literal opening every request frame.
	ProtocolVersion = "1"

	// maxArgs is the fixed argument slot count of a request frame. Every
	// frame carries exactly this many slots; unsupplied ones go out empty.
	maxArgs = 3

	// statusBadVersion is the reserved completion status a target returns
	// for a version it does not speak, independent of the command.
	statusBadVersion = 101

	maxStatusDigits = 16
)

// validateCommand enforces the frame preconditions before any connection is
// opened: at most maxArgs arguments and no embedded NUL terminator bytes.
func validateCommand(command string, args []string) error {
	if len(args) > maxArgs {
		return fmt.Errorf("%w: %d arguments, limit is %d", ErrMalformedArgs, len(args), maxArgs)
	}
	if command == "" {
		return fmt.Errorf("%w: empty command", ErrMalformedArgs)
	}
	if strings.IndexByte(command, 0) >= 0 {
		return fmt.Errorf("%w: command contains NUL byte", ErrMalformedArgs)
	}
	for i, a := range args {
		if strings.IndexByte(a, 0) >= 0 {
			return fmt.Errorf("%w: argument %d contains NUL byte", ErrMalformedArgs, i)
		}
	}
	return nil
}

// writeRequest serializes one command frame:
//
//	<version>\0 <command>\0 <arg0>\0 <arg1>\0 <arg2>\0
//
// Callers validate first; this assumes a well-formed command.
func writeRequest(w io.Writer, command string, args []string) error {
	var buf bytes.Buffer
	buf.WriteString(ProtocolVersion)
	buf.WriteByte(0)
	buf.WriteString(command)
	buf.WriteByte(0)
	for i := 0; i < maxArgs; i++ {
		if i < len(args) {
			buf.WriteString(args[i])
		}
		buf.WriteByte(0)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("attach: write request frame: %w", err)
	}
	return nil
}

// readCompletionStatus reads the decimal status that opens every response.
// Digits accumulate until a terminating newline or end of stream.
func readCompletionStatus(r io.Reader) (int, error) {
	var digits []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			digits = append(digits, buf[0])
			if len(digits) > maxStatusDigits {
				return 0, fmt.Errorf("attach: completion status too long: %q", digits)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("attach: read completion status: %w", err)
		}
	}
	status, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, fmt.Errorf("attach: malformed completion status %q", digits)
	}
	return status, nil
}
