package utils

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAnalysisReadyEmailArgumentOrder(t *testing.T) {
	// The signature matches the pipeline Notify hook: asset id first, then
	// recipient. Without an API key the send fails and logs the asset id, so
	// a swapped call would log the recipient's address instead.
	t.Setenv("SENDGRID_API_KEY", "")

	orig := log.Writer()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(orig)

	SendAnalysisReadyEmail("asset-1234", "amina@example.com")

	out := buf.String()
	require.Contains(t, out, "for asset-1234")
	assert.NotContains(t, out, "for amina@example.com")
}
