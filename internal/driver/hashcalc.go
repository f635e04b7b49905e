package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"encrude/internal/rude"
	"encrude/internal/source"
)

// Digest is a sha256 cache key.
type Digest [32]byte

// combineDigest: H(part1 || part2 ...). Каждая часть с префиксом длины,
// чтобы ("ab","c") и ("a","bc") не совпадали.
func combineDigest(parts ...[]byte) Digest {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// pairKey identifies one analysis: provider, both clean texts, the active
// statements and the diagnostics cap.
func pairKey(p Provider, before, after *source.File, stmts []rude.ActiveStatement, maxDiagnostics int) Digest {
	enc := make([]byte, 0, len(stmts)*17+8)
	for _, s := range stmts {
		enc = binary.LittleEndian.AppendUint64(enc, uint64(s.ID))
		enc = binary.LittleEndian.AppendUint32(enc, s.Span.Start)
		enc = binary.LittleEndian.AppendUint32(enc, s.Span.End)
		if s.Leaf {
			enc = append(enc, 1)
		} else {
			enc = append(enc, 0)
		}
	}
	enc = binary.LittleEndian.AppendUint64(enc, uint64(maxDiagnostics))
	return combineDigest([]byte(p), before.Hash[:], after.Hash[:], enc)
}
