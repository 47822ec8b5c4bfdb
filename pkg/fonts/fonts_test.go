package fonts

import "testing"

func TestFace(t *testing.T) {
	for _, w := range []Weight{Regular, Bold} {
		f, err := Face(w, 24)
		if err != nil {
			t.Fatalf("Face(%v): %v", w, err)
		}
		if f.Advance("Hello") <= 0 {
			t.Errorf("%v: zero advance", w)
		}
		if f.Metrics().Ascent <= 0 {
			t.Errorf("%v: zero ascent", w)
		}
	}
}

func TestTTFBase64(t *testing.T) {
	if TTFBase64(Regular) == "" || TTFBase64(Regular) == TTFBase64(Bold) {
		t.Error("expected distinct non-empty encodings")
	}
}
