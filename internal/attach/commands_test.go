package attach

import (
	"context"
	"testing"

	"github.com/danmuck/attachctl/internal/testutil/testlog"
)

func TestLoadAgentFraming(t *testing.T) {
	testlog.Start(t)
	s, ft, _ := attachToFakeTarget(t, func([]string) []byte {
		return []byte("0\n")
	})
	defer s.Detach()

	if err := s.LoadAgent(context.Background(), "/opt/agent.jar", "trace=on"); err != nil {
		t.Fatalf("load agent: %v", err)
	}
	want := []string{"1", "load", "instrument", "false", "/opt/agent.jar=trace=on"}
	got := ft.request(0)
	if len(got) != len(want) {
		t.Fatalf("request fields got=%v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field %d got=%q want=%q", i, got[i], want[i])
		}
	}
}

func TestLoadAgentLibraryAbsoluteFlag(t *testing.T) {
	testlog.Start(t)
	s, ft, _ := attachToFakeTarget(t, func([]string) []byte {
		return []byte("0\n")
	})
	defer s.Detach()

	if err := s.LoadAgentLibrary(context.Background(), "/opt/libagent.so", true, ""); err != nil {
		t.Fatalf("load library: %v", err)
	}
	got := ft.request(0)
	if len(got) != 5 || got[1] != "load" || got[2] != "/opt/libagent.so" || got[3] != "true" || got[4] != "" {
		t.Fatalf("request fields got=%v", got)
	}
}
