package entities

// Waveform is decoded audio ready for the model adapters: PCM16 signed
// little-endian mono samples at a fixed rate. The acquisition adapter is
// responsible for downmixing and resampling before a Waveform is built.
type Waveform struct {
	PCM16      []byte
	SampleRate int
}

// NumSamples returns the number of 16-bit samples in the waveform.
func (w Waveform) NumSamples() int {
	return len(w.PCM16) / 2
}

// DurationSeconds returns the waveform length in seconds.
func (w Waveform) DurationSeconds() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return float64(w.NumSamples()) / float64(w.SampleRate)
}
