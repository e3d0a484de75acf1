package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repo-evidence/internal/ledger"
	"github.com/temirov/repo-evidence/internal/links"
	"github.com/temirov/repo-evidence/internal/utils"
)

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	configurationLoader := utils.NewConfigurationLoader(configurationNameConstant, configurationTypeConstant, environmentPrefixConstant, []string{testInstance.TempDir()})
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	var configuration ApplicationConfiguration
	_, loadError := configurationLoader.LoadConfiguration("", nil, &configuration)
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, string(utils.LogLevelInfo), configuration.Common.LogLevel)
	require.Equal(testInstance, string(utils.LogFormatConsole), configuration.Common.LogFormat)
	require.Equal(testInstance, ledger.DefaultCommandConfiguration(), configuration.Tools.EvidenceLedger)
	require.Equal(testInstance, links.DefaultCommandConfiguration(), configuration.Tools.DocsLinks)
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstContent, configurationType := EmbeddedDefaultConfiguration()
	require.Equal(testInstance, configurationTypeConstant, configurationType)
	require.NotEmpty(testInstance, firstContent)

	firstContent[0] = '#'
	secondContent, _ := EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstContent[0], secondContent[0])
}
