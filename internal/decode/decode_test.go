package decode

import (
	"testing"

	"shazoom/internal/errs"
)

func TestFile_UnsupportedExtensionIsInputError(t *testing.T) {
	_, err := File("song.ogg")
	if err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
	if !errs.Is(err, errs.Input) {
		t.Errorf("expected an input error, got %v", err)
	}
}

func TestInt16ToFloat64_ScalesToUnitRange(t *testing.T) {
	out := int16ToFloat64([]int{0, 32767, -32768})
	if out[0] != 0 {
		t.Errorf("out[0] = %v, want 0", out[0])
	}
	if out[1] <= 0.99 || out[1] >= 1.0 {
		t.Errorf("out[1] = %v, want just under 1.0", out[1])
	}
	if out[2] != -1.0 {
		t.Errorf("out[2] = %v, want -1.0", out[2])
	}
}

func TestStereoToMono_AveragesChannels(t *testing.T) {
	interleaved := []float64{1.0, -1.0, 0.5, 0.5}
	out := stereoToMono(interleaved)
	if len(out) != 2 {
		t.Fatalf("expected 2 mono samples, got %d", len(out))
	}
	if out[0] != 0.0 {
		t.Errorf("out[0] = %v, want 0.0", out[0])
	}
	if out[1] != 0.5 {
		t.Errorf("out[1] = %v, want 0.5", out[1])
	}
}
