//go:build unix

package fleet_test

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/fleet"
	"github.com/viant/fleet/model/fuel"
	"github.com/viant/fleet/service/launcher/process"
)

// TestPlaneHelper flies one plane when the test binary is started as a
// process plane.
func TestPlaneHelper(t *testing.T) {
	if os.Getenv("FLEET_PLANE_HELPER") != "1" {
		return
	}
	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	config := process.DefaultChildConfig()
	flags := pflag.NewFlagSet(fleet.PlaneCommand, pflag.ContinueOnError)
	process.BindFlags(flags, &config)
	if err := flags.Parse(args); err != nil {
		os.Exit(2)
	}
	if _, err := process.RunChild(context.Background(), config, os.Stdout); err != nil {
		os.Exit(1)
	}
	os.Exit(0)
}

func TestService_ProcessRuntime(t *testing.T) {
	config := fleet.DefaultConfig()
	config.Runtime = fleet.RuntimeProcess
	config.Events.BaseURL = t.TempDir()
	config.Events.PollInterval = 5 * time.Millisecond
	config.ShutdownTimeout = 10 * time.Second
	config.Fuel = fuel.Gauge{Max: 10, BurnAmount: 5, BurnInterval: 100 * time.Millisecond, Quantum: time.Millisecond}

	out := &syncBuffer{}
	in, feed := io.Pipe()
	srv, err := fleet.New(config,
		fleet.WithInput(in),
		fleet.WithOutput(out),
		fleet.WithPlaneCommand(os.Args[0], "-test.run=^TestPlaneHelper$", "--"),
		fleet.WithPlaneEnv("FLEET_PLANE_HELPER=1"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()

	_, err = feed.Write([]byte("l\n"))
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "has crashed!")
	}, 10*time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, _ = feed.Write([]byte("s\n"))
		return strings.Contains(out.String(), "There are no planes in the sky!")
	}, 10*time.Second, 10*time.Millisecond)
	_, err = feed.Write([]byte("l\ns\n"))
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "The current planes are: ")
	}, 10*time.Second, 10*time.Millisecond)

	require.NoError(t, feed.Close())
	require.NoError(t, <-done)
	summary := srv.Supervisor().Progress()
	assert.Equal(t, 2, summary.Launched)
	assert.Equal(t, 1, summary.Crashed)
	assert.Equal(t, 1, summary.Reaped)
}
