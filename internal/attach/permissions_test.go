package attach

import (
	"errors"
	"testing"

	"github.com/danmuck/attachctl/internal/testutil/testlog"
)

func TestValidateSocketOwnerOnly(t *testing.T) {
	testlog.Start(t)
	fp := newFakePlatform()

	cases := []struct {
		name string
		stat FileStat
		ok   bool
	}{
		{"owner rw only", FileStat{UID: uint32(fp.euid), Mode: 0o600}, true},
		{"owner rwx only", FileStat{UID: uint32(fp.euid), Mode: 0o700}, true},
		{"group read", FileStat{UID: uint32(fp.euid), Mode: 0o640}, false},
		{"other write", FileStat{UID: uint32(fp.euid), Mode: 0o602}, false},
		{"world rw", FileStat{UID: uint32(fp.euid), Mode: 0o666}, false},
		{"foreign owner", FileStat{UID: uint32(fp.euid + 1), Mode: 0o600}, false},
	}
	for _, tc := range cases {
		fp.statFn = func(string) (FileStat, error) { return tc.stat, nil }
		err := validateSocket(fp, "/tmp/.java_pid1")
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("%s: got %v, want ErrPermissionDenied", tc.name, err)
		}
	}
}

func TestValidateSocketStatFailure(t *testing.T) {
	testlog.Start(t)
	fp := newFakePlatform()
	fp.statFn = func(string) (FileStat, error) {
		return FileStat{}, errors.New("vanished")
	}
	if err := validateSocket(fp, "/tmp/.java_pid1"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
}
