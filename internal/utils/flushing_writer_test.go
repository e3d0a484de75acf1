package utils_test

import (
	"bufio"
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repo-evidence/internal/utils"
)

func TestFlushingWriterFlushesBufferedDestination(testInstance *testing.T) {
	targetBuffer := &bytes.Buffer{}
	bufferedWriter := bufio.NewWriterSize(targetBuffer, 4096)

	flushingWriter := utils.NewFlushingWriter(bufferedWriter)
	_, printError := fmt.Fprintln(flushingWriter, "/tmp/evidence-ledger.md")

	require.NoError(testInstance, printError)
	require.Equal(testInstance, "/tmp/evidence-ledger.md\n", targetBuffer.String())
}

func TestNewFlushingWriterWrapsOnce(testInstance *testing.T) {
	flushingWriter := utils.NewFlushingWriter(&bytes.Buffer{})

	require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}
