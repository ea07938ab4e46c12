package analyze

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// ffprobeInfo represents the output from ffprobe
type ffprobeInfo struct {
	Streams []ffprobeStream `json:"streams"`
	Format  *ffprobeFormat  `json:"format"`
}

type ffprobeStream struct {
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
}

type ffprobeFormat struct {
	Duration string `json:"duration"`
	BitRate  string `json:"bit_rate"`
}

// extractStreamInfo fills duration, bitrate and sample rate via ffprobe.
func extractStreamInfo(path string, m *Metadata) error {
	out, err := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path).Output()
	if err != nil {
		return fmt.Errorf("ffprobe failed: %w", err)
	}

	var info ffprobeInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if info.Format != nil {
		if d, err := strconv.ParseFloat(info.Format.Duration, 64); err == nil {
			m.DurationSec = d
		}
		if br, err := strconv.Atoi(info.Format.BitRate); err == nil {
			m.BitrateKbps = br / 1000
		}
	}

	for _, stream := range info.Streams {
		if stream.CodecType == "audio" {
			if sr, err := strconv.Atoi(stream.SampleRate); err == nil {
				m.SampleRate = sr
			}
			break
		}
	}

	return nil
}
