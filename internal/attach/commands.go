package attach

import (
	"context"
	"strconv"
	"strings"
)

// Command helpers for the conventional diagnostic surface. These are
// pass-through framings only; what the target does with them is its own
// business.

// Properties requests the target's system properties dump.
func (s *Session) Properties(ctx context.Context) (*ResponseStream, error) {
	return s.Execute(ctx, "properties")
}

// ThreadDump requests a thread dump, forwarding up to three option flags.
func (s *Session) ThreadDump(ctx context.Context, options ...string) (*ResponseStream, error) {
	return s.Execute(ctx, "threaddump", options...)
}

// DataDump asks the target to print its heap and thread summary.
func (s *Session) DataDump(ctx context.Context) (*ResponseStream, error) {
	return s.Execute(ctx, "datadump")
}

// JCmd forwards one diagnostic command line to the target.
func (s *Session) JCmd(ctx context.Context, commandLine string) (*ResponseStream, error) {
	return s.Execute(ctx, "jcmd", commandLine)
}

// LoadAgentLibrary loads a native agent library, with absolute marking the
// path as already resolved on the target side.
func (s *Session) LoadAgentLibrary(ctx context.Context, library string, absolute bool, options string) error {
	stream, err := s.Execute(ctx, loadCommand, library, strconv.FormatBool(absolute), options)
	if err != nil {
		return err
	}
	return stream.Close()
}

// LoadAgent loads a bytecode instrumentation agent through the target's
// built-in instrument library.
func (s *Session) LoadAgent(ctx context.Context, agent string, options string) error {
	arg := agent
	if strings.TrimSpace(options) != "" {
		arg = agent + "=" + options
	}
	stream, err := s.Execute(ctx, loadCommand, "instrument", "false", arg)
	if err != nil {
		return err
	}
	return stream.Close()
}
