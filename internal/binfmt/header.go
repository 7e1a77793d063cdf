// Package binfmt implements the fixed 52-byte .sorex header, the 8-byte
// footer, the derived section offset table, and the top-level structural
// validation spec.md §4.2 describes. Multi-byte integers are little-endian
// throughout; varints (used inside sections, not the header) are handled by
// package varint.
package binfmt

import (
	"encoding/binary"
	"hash/crc32"
	"strconv"

	"github.com/sorexsearch/sorex/internal/xerrors"
)

// HeaderMagic and FooterMagic are the fixed 4-byte markers that bookend a
// .sorex buffer.
const (
	HeaderMagic = "SORX"
	FooterMagic = "XROS"
	Version     = 12

	HeaderSize = 52
	FooterSize = 8
)

// Section identifies one of the nine section-length fields, in the fixed
// order they appear in the header and on disk.
type Section int

const (
	SectionWasm Section = iota
	SectionVocabulary
	SectionDictTables
	SectionPostings
	SectionSuffixArray
	SectionDocs
	SectionSectionTable
	SectionSkipLists
	SectionLevDFA
	sectionCount
)

// Header is the decoded fixed-size header.
type Header struct {
	Version    uint8
	Flags      uint8
	DocCount   uint32
	TermCount  uint32
	SectionLen [sectionCount]uint32
}

// SectionOffsets gives the byte offset and length of every section, derived
// by prefix sum over Header.SectionLen starting just after the header. This
// is the single source of truth for where a section lives; nothing recomputes
// offsets from field order independently.
type SectionOffsets struct {
	Offset [sectionCount]uint32
	Length [sectionCount]uint32
}

// End returns the offset one past the last section, i.e. where the footer
// begins.
func (o SectionOffsets) End() uint32 {
	return o.Offset[sectionCount-1] + o.Length[sectionCount-1]
}

// Derive computes SectionOffsets from a Header by prefix sum.
func (h *Header) Derive() SectionOffsets {
	var o SectionOffsets
	offset := uint32(HeaderSize)
	for i := 0; i < int(sectionCount); i++ {
		o.Offset[i] = offset
		o.Length[i] = h.SectionLen[i]
		offset += h.SectionLen[i]
	}
	return o
}

// DecodeHeader parses and validates the fixed header at the front of buf.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, xerrors.New(xerrors.Truncated, "buffer shorter than header")
	}
	if string(buf[0:4]) != HeaderMagic {
		return nil, xerrors.New(xerrors.MalformedHeader, "bad magic")
	}
	version := buf[4]
	if version != Version {
		return nil, xerrors.New(xerrors.MalformedHeader, "unsupported version").
			WithContext("version", strconv.Itoa(int(version)))
	}

	h := &Header{
		Version: version,
		Flags:   buf[5],
	}
	h.DocCount = binary.LittleEndian.Uint32(buf[6:10])
	h.TermCount = binary.LittleEndian.Uint32(buf[10:14])

	if h.DocCount > MaxDocCount {
		return nil, xerrors.New(xerrors.MalformedHeader, "doc_count exceeds MAX_DOC_COUNT")
	}
	if h.TermCount > MaxTermCount {
		return nil, xerrors.New(xerrors.MalformedHeader, "term_count exceeds MAX_TERM_COUNT")
	}

	off := 14
	for i := 0; i < int(sectionCount); i++ {
		length := binary.LittleEndian.Uint32(buf[off : off+4])
		if length > MaxFileSize {
			return nil, xerrors.New(xerrors.MalformedHeader, "section length exceeds MAX_FILE_SIZE").
				WithContext("section", strconv.Itoa(i))
		}
		h.SectionLen[i] = length
		off += 4
	}
	// Remaining header bytes (off..HeaderSize) are reserved and not
	// validated beyond being present.
	return h, nil
}

// EncodeHeader serializes h into a fresh HeaderSize-byte buffer. Builder-side
// use only; the query engine never writes a header.
func EncodeHeader(h *Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], HeaderMagic)
	buf[4] = h.Version
	buf[5] = h.Flags
	binary.LittleEndian.PutUint32(buf[6:10], h.DocCount)
	binary.LittleEndian.PutUint32(buf[10:14], h.TermCount)
	off := 14
	for i := 0; i < int(sectionCount); i++ {
		binary.LittleEndian.PutUint32(buf[off:off+4], h.SectionLen[i])
		off += 4
	}
	return buf
}

// Footer is the decoded trailing CRC32 + magic.
type Footer struct {
	CRC32 uint32
}

// VerifyFooter checks that buf ends with a valid footer: the CRC32 (IEEE
// polynomial) of everything before the footer matches, and the trailing
// 4 bytes are the footer magic.
func VerifyFooter(buf []byte) (*Footer, error) {
	if len(buf) < FooterSize {
		return nil, xerrors.New(xerrors.Truncated, "buffer shorter than footer")
	}
	body := buf[:len(buf)-FooterSize]
	footerBytes := buf[len(buf)-FooterSize:]

	gotMagic := string(footerBytes[4:8])
	if gotMagic != FooterMagic {
		return nil, xerrors.New(xerrors.MalformedHeader, "bad footer magic")
	}

	declared := binary.LittleEndian.Uint32(footerBytes[0:4])
	actual := crc32.ChecksumIEEE(body)
	if declared != actual {
		return nil, xerrors.New(xerrors.ChecksumMismatch, "footer CRC32 does not match body")
	}
	return &Footer{CRC32: actual}, nil
}

// EncodeFooter appends a footer (CRC32 of body, then magic) to body and
// returns the combined buffer. Builder-side use only.
func EncodeFooter(body []byte) []byte {
	crc := crc32.ChecksumIEEE(body)
	out := make([]byte, 0, len(body)+FooterSize)
	out = append(out, body...)
	var crcBuf [4]byte
	binary.LittleEndian.PutUint32(crcBuf[:], crc)
	out = append(out, crcBuf[:]...)
	out = append(out, FooterMagic...)
	return out
}
