package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, 3)
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	require.Contains(t, names, "run")
	require.Contains(t, names, "results")
	require.Contains(t, names, "social")

	require.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestRunCommandFlags(t *testing.T) {
	run := newRunCmd()
	require.NotNil(t, run.Flags().Lookup("min"))
	require.NotNil(t, run.Flags().Lookup("max"))
}

func TestSocialCommandRequiresName(t *testing.T) {
	social := newSocialCmd()
	social.SetArgs([]string{})
	require.Error(t, social.Execute())
}
