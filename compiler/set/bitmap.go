package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	Bitmap struct {
		b []uint64
	}
)

func MakeBitmap(ln int) Bitmap {
	return Bitmap{
		b: make([]uint64, (ln+63)/64),
	}
}

func NewBitmap(ln int) *Bitmap {
	s := MakeBitmap(ln)
	return &s
}

func (s *Bitmap) Set(i int) {
	i, j := s.ij(i)

	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}

	s.b[i] |= 1 << j
}

func (s *Bitmap) Clear(i int) {
	i, j := s.ij(i)

	if i >= len(s.b) {
		return
	}

	s.b[i] &^= 1 << j
}

func (s *Bitmap) IsSet(i int) bool {
	if s == nil {
		return false
	}

	i, j := s.ij(i)

	if i >= len(s.b) {
		return false
	}

	return s.b[i]&(1<<j) != 0
}

func (s *Bitmap) Or(x Bitmap) {
	for len(s.b) < len(x.b) {
		s.b = append(s.b, 0)
	}

	for i, c := range x.b {
		s.b[i] |= c
	}
}

func (s *Bitmap) Copy() Bitmap {
	r := Bitmap{}
	r.Or(*s)
	return r
}

func (s *Bitmap) Size() (r int) {
	if s == nil {
		return 0
	}

	for _, c := range s.b {
		r += bits.OnesCount64(c)
	}

	return r
}

func (s *Bitmap) Range(f func(i int) bool) {
	for i, c := range s.b {
		for c != 0 {
			j := bits.TrailingZeros64(c)
			c &^= 1 << j

			if !f(i*64 + j) {
				return
			}
		}
	}
}

func (s Bitmap) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s.b == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(i int) bool {
		b = e.AppendInt(b, i)

		return true
	})

	b = e.AppendBreak(b)

	return b
}

func (s *Bitmap) ij(pos int) (i, j int) {
	return pos / 64, pos % 64
}
