package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestServerStartsWithEditorWindow(t *testing.T) {
	srv := StartServer(t)
	srv.NewWindow(SessionName, "logs")
	names, err := srv.WindowNames(SessionName)
	if err != nil {
		t.Skipf("skipping: list-windows failed: %v", err)
	}
	require.Equal(t, []string{"editor", "logs"}, names)
}

func TestServerCaptureUnknownPane(t *testing.T) {
	srv := StartServer(t)
	_, err := srv.Capture("nosuch:0.0")
	require.Error(t, err)
}
