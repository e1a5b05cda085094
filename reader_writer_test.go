package tftp

import "testing"

func TestReaderTakeUint16(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})
	v, err := r.TakeUint16()
	if err != nil {
		t.Fatalf("TakeUint16: %v", err)
	}
	if v != 0x0102 {
		t.Errorf("got %#x, want 0x0102", v)
	}
	if r.Pos() != 2 {
		t.Errorf("pos = %d, want 2", r.Pos())
	}
}

func TestReaderTakeUint16OutOfRange(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.TakeUint16(); err != ErrNotEnoughData {
		t.Fatalf("got err %v, want ErrNotEnoughData", err)
	}
	if r.Pos() != 0 {
		t.Errorf("cursor moved on failed read: pos = %d", r.Pos())
	}
}

func TestReaderTakeString(t *testing.T) {
	r := NewReader([]byte("hello\x00world"))
	s, err := r.TakeString()
	if err != nil {
		t.Fatalf("TakeString: %v", err)
	}
	if s != "hello" {
		t.Errorf("got %q, want %q", s, "hello")
	}
	if r.Pos() != 6 {
		t.Errorf("pos = %d, want 6", r.Pos())
	}
}

func TestReaderTakeStringNotTerminated(t *testing.T) {
	r := NewReader([]byte("hello"))
	if _, err := r.TakeString(); err != ErrStringNotTerminated {
		t.Fatalf("got err %v, want ErrStringNotTerminated", err)
	}
	if r.Pos() != 0 {
		t.Errorf("cursor moved on failed read: pos = %d", r.Pos())
	}
}

func TestReaderTakeRemaining(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	r.TakeUint16()
	rest := r.TakeRemaining()
	if string(rest) != "\x03\x04" {
		t.Errorf("got %v, want [3 4]", rest)
	}
	if r.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", r.Remaining())
	}
}

func TestWriterPutUint16(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)
	if err := w.PutUint16(0x0102); err != nil {
		t.Fatalf("PutUint16: %v", err)
	}
	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Errorf("got %v, want [1 2]", buf)
	}
}

func TestWriterPutUint16OutOfSpace(t *testing.T) {
	buf := make([]byte, 1)
	w := NewWriter(buf)
	if err := w.PutUint16(1); err != ErrNotEnoughSpace {
		t.Fatalf("got err %v, want ErrNotEnoughSpace", err)
	}
	if w.Pos() != 0 {
		t.Errorf("cursor moved on failed write: pos = %d", w.Pos())
	}
}

func TestWriterPutString(t *testing.T) {
	buf := make([]byte, 6)
	w := NewWriter(buf)
	if err := w.PutString("foo"); err != nil {
		t.Fatalf("PutString: %v", err)
	}
	if string(buf[:4]) != "foo\x00" {
		t.Errorf("got %q, want %q", buf[:4], "foo\x00")
	}
	if w.Pos() != 4 {
		t.Errorf("pos = %d, want 4", w.Pos())
	}
}

func TestWriterPutStringOutOfSpace(t *testing.T) {
	// A 6-byte buffer can't hold "foobar" plus its terminator: the
	// terminator byte must always be reserved.
	buf := make([]byte, 6)
	w := NewWriter(buf)
	if err := w.PutString("foobar"); err != ErrNotEnoughSpace {
		t.Fatalf("got err %v, want ErrNotEnoughSpace", err)
	}
	if w.Pos() != 0 {
		t.Errorf("cursor moved on failed write: pos = %d", w.Pos())
	}
}

func TestWriterPutStringRejectsNonASCII(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriter(buf)
	if err := w.PutString("café"); err != ErrStringNotASCII {
		t.Fatalf("got err %v, want ErrStringNotASCII", err)
	}
}

func TestWriterPutStringRejectsNull(t *testing.T) {
	buf := make([]byte, 16)
	w := NewWriter(buf)
	if err := w.PutString("foo\x00bar"); err != ErrStringContainsNull {
		t.Fatalf("got err %v, want ErrStringContainsNull", err)
	}
}

func TestWriterPutBytes(t *testing.T) {
	buf := make([]byte, 3)
	w := NewWriter(buf)
	if err := w.PutBytes([]byte{1, 2, 3}); err != nil {
		t.Fatalf("PutBytes: %v", err)
	}
	if w.Pos() != 3 {
		t.Errorf("pos = %d, want 3", w.Pos())
	}
}

func TestWriterPutBytesOutOfSpace(t *testing.T) {
	buf := make([]byte, 2)
	w := NewWriter(buf)
	if err := w.PutBytes([]byte{1, 2, 3}); err != ErrNotEnoughSpace {
		t.Fatalf("got err %v, want ErrNotEnoughSpace", err)
	}
}
