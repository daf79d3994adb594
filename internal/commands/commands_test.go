package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kyofu-bot/kyofu/internal/command"
	"github.com/kyofu-bot/kyofu/internal/command/commandtest"
)

func TestRegistry(t *testing.T) {
	reg, err := Registry(commandtest.NewStore(t), commandtest.DeveloperID, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Len(t, reg.All(), 24)
	for _, token := range []string{"help", "aide", "fake", "warn", "infractions", "start", "acheter", "todo"} {
		assert.NotNil(t, reg.Resolve(token), token)
	}

	desc, ok := command.DescriptorOf(reg.Resolve("resetxp"))
	require.True(t, ok)
	assert.Equal(t, command.Developer, desc.Access)
}
