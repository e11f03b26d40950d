package tts

import (
	"encoding/binary"
	"testing"
)

func TestEncodeWAVHeader(t *testing.T) {
	clip := &Clip{
		Data:       []byte{0x01, 0x02, 0x03, 0x04},
		SampleRate: 24000,
		Channels:   1,
	}

	wav := EncodeWAV(clip)

	if len(wav) != 44+len(clip.Data) {
		t.Fatalf("expected %d bytes, got %d", 44+len(clip.Data), len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Errorf("bad container magic: %q %q", wav[0:4], wav[8:12])
	}
	if string(wav[12:16]) != "fmt " {
		t.Errorf("missing fmt chunk: %q", wav[12:16])
	}

	sampleRate := binary.LittleEndian.Uint32(wav[24:28])
	if sampleRate != 24000 {
		t.Errorf("sample rate = %d, want 24000", sampleRate)
	}
	channels := binary.LittleEndian.Uint16(wav[22:24])
	if channels != 1 {
		t.Errorf("channels = %d, want 1", channels)
	}
	bits := binary.LittleEndian.Uint16(wav[34:36])
	if bits != 16 {
		t.Errorf("bits per sample = %d, want 16", bits)
	}

	dataLen := binary.LittleEndian.Uint32(wav[40:44])
	if int(dataLen) != len(clip.Data) {
		t.Errorf("data chunk length = %d, want %d", dataLen, len(clip.Data))
	}
}

func TestEncodeWAVDefaultsChannels(t *testing.T) {
	clip := &Clip{Data: []byte{0, 0}, SampleRate: 24000}
	wav := EncodeWAV(clip)

	channels := binary.LittleEndian.Uint16(wav[22:24])
	if channels != 1 {
		t.Errorf("channels = %d, want 1", channels)
	}
}
