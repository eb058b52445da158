package cli

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/novabill/pkg/state"
)

func TestLogStateChange(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	notify := logStateChange(logger)

	notify(state.Change{Kind: state.ChangeModified, Path: "state.json"})
	assert.Empty(t, hook.AllEntries())

	notify(state.Change{Kind: state.ChangeRemoved, Path: "state.json"})
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "state.json", hook.LastEntry().Data["path"])
}
