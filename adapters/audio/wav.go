package audio

import (
	"encoding/binary"
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// decoded holds PCM16 audio pulled out of a WAV container.
type decoded struct {
	pcm        []byte
	sampleRate int
	channels   int
}

// decodeWAV parses a RIFF/WAVE container and returns its PCM16 payload.
// Only uncompressed 16-bit PCM is supported; that is the format the
// upload path stores.
func decodeWAV(data []byte) (decoded, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return decoded{}, fmt.Errorf("not a RIFF/WAVE file")
	}

	var out decoded
	var haveFmt, haveData bool

	// Walk the chunk list. Chunks are 2-byte aligned.
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		if body+size > len(data) {
			// Truncated chunk; take what is there for "data", reject otherwise.
			if id == "data" {
				size = len(data) - body
			} else {
				return decoded{}, fmt.Errorf("truncated %q chunk", id)
			}
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return decoded{}, fmt.Errorf("fmt chunk too short: %d bytes", size)
			}
			format := binary.LittleEndian.Uint16(data[body : body+2])
			if format != 1 {
				return decoded{}, fmt.Errorf("unsupported WAV format code %d (want PCM)", format)
			}
			out.channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			out.sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if bits != 16 {
				return decoded{}, fmt.Errorf("unsupported bit depth %d (want 16)", bits)
			}
		case "data":
			out.pcm = data[body : body+size]
			haveData = true
		}
		if id == "fmt " {
			haveFmt = true
		}

		pos = body + size
		if size%2 == 1 {
			pos++
		}
	}

	if !haveFmt || !haveData {
		return decoded{}, fmt.Errorf("missing fmt or data chunk")
	}
	if out.channels < 1 || out.channels > 2 {
		return decoded{}, fmt.Errorf("unsupported channel count %d", out.channels)
	}
	return out, nil
}

// downmixToMono averages interleaved stereo PCM16 into mono.
func downmixToMono(pcm []byte) []byte {
	frames := len(pcm) / 4
	mono := make([]byte, frames*2)
	for i := 0; i < frames; i++ {
		left := int16(binary.LittleEndian.Uint16(pcm[i*4 : i*4+2]))
		right := int16(binary.LittleEndian.Uint16(pcm[i*4+2 : i*4+4]))
		avg := int16((int32(left) + int32(right)) / 2)
		binary.LittleEndian.PutUint16(mono[i*2:i*2+2], uint16(avg))
	}
	return mono
}

// resamplePCM converts mono PCM16 from srcRate to dstRate.
func resamplePCM(pcm []byte, srcRate, dstRate int) ([]byte, error) {
	if srcRate == dstRate {
		return pcm, nil
	}

	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	samples := len(pcm) / 2
	input := make([]float64, samples)
	for i := 0; i < samples; i++ {
		input[i] = float64(int16(binary.LittleEndian.Uint16(pcm[i*2:i*2+2]))) / 32768.0
	}

	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}

	out := make([]byte, len(output)*2)
	for i, s := range output {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.LittleEndian.PutUint16(out[i*2:i*2+2], uint16(int16(s*32767.0)))
	}
	return out, nil
}
