package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/vidgen-api/internal/domain"
)

func TestFromProgressWorking(t *testing.T) {
	wire := FromProgress(domain.WorkingEvent("Simulated progress: 42%.", 42))

	assert.False(t, wire.IsTaskComplete)
	assert.False(t, wire.IsError)
	assert.Equal(t, 42, wire.ProgressPercent)
	assert.Equal(t, "Simulated progress: 42%.", wire.Updates)
	assert.Nil(t, wire.FilePartData)
}

func TestFromProgressCompleted(t *testing.T) {
	artifact := &domain.ArtifactRef{
		URL:         "https://signed.example.com/t1/video.mp4",
		MIMEType:    "video/mp4",
		Name:        "video.mp4",
		Description: "Generated video",
		Signed:      true,
	}
	wire := FromProgress(domain.CompletedEvent("Video generation successful.", artifact))

	assert.True(t, wire.IsTaskComplete)
	assert.False(t, wire.IsError)
	assert.Equal(t, 100, wire.ProgressPercent)
	assert.Equal(t, "Video generation successful.", wire.FinalMessageText)
	require.NotNil(t, wire.FilePartData)
	assert.Equal(t, artifact.URL, wire.FilePartData.URI)
	assert.Equal(t, "video/mp4", wire.FilePartData.MIMEType)
	assert.Equal(t, "video.mp4", wire.ArtifactName)
	assert.Equal(t, "Generated video", wire.ArtifactDescription)
}

func TestFromProgressFailed(t *testing.T) {
	wire := FromProgress(domain.FailedEvent("Video generation failed.", "backend exploded"))

	assert.True(t, wire.IsTaskComplete)
	assert.True(t, wire.IsError)
	assert.Equal(t, 100, wire.ProgressPercent)
	assert.Equal(t, "Video generation failed.", wire.FinalMessageText)
	assert.Equal(t, "backend exploded", wire.Content)
	assert.Nil(t, wire.FilePartData)
}

func TestStreamEventJSONShape(t *testing.T) {
	wire := FromProgress(domain.WorkingEvent("polling", 5))
	data, err := json.Marshal(wire)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Contains(t, decoded, "is_task_complete")
	assert.Contains(t, decoded, "progress_percent")
	assert.Contains(t, decoded, "updates")
	assert.NotContains(t, decoded, "file_part_data", "empty optional fields must be omitted")
	assert.NotContains(t, decoded, "final_message_text")
}
