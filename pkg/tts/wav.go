package tts

import (
	"bytes"
	"encoding/binary"
)

// EncodeWAV wraps a clip's raw PCM samples in a RIFF/WAVE container so
// downstream decoders can consume it without out-of-band format metadata.
func EncodeWAV(clip *Clip) []byte {
	channels := clip.Channels
	if channels == 0 {
		channels = 1
	}

	const bitsPerSample = 16
	byteRate := clip.SampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8
	dataLen := len(clip.Data)

	var buf bytes.Buffer
	buf.Grow(44 + dataLen)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(clip.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(clip.Data)

	return buf.Bytes()
}
