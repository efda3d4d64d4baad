package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go2tv.app/displaycap/displaycap"
)

func TestTryGetDisplayInfoWithoutDispatcher(t *testing.T) {
	info, ok := TryGetDisplayInfo(0)
	assert.False(t, ok)
	assert.Zero(t, info)
}

func TestCreateWithoutDispatcherFails(t *testing.T) {
	_, err := Create(0)
	assert.Error(t, err)
}

func TestCreateScreenshotSessionNeedsNoDispatcher(t *testing.T) {
	session, err := CreateWithMethod(0, displaycap.MethodScreenshot)
	require.NoError(t, err)
	assert.Equal(t, displaycap.MethodScreenshot, session.CaptureMethod())
	assert.Equal(t, int32(0), session.DisplayID())
	Free(session)
}

func TestFreeNilSessionIsSafe(t *testing.T) {
	Free(nil)
}
