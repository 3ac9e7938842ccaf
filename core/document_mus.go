package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types persisted in the index. Written by hand so
// the wire format is explicit: varint ids and counts, length-prefixed
// strings, raw little-endian float32 vectors, unix-micro timestamps.

var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

// IDMUS serializes IDs as unsigned varints.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// MetadataMUS serializes Metadata as six length-prefixed strings in
// declaration order.
var MetadataMUS = metadataMUS{}

type metadataMUS struct{}

func (metadataMUS) Marshal(m Metadata, bs []byte) (n int) {
	n = ord.String.Marshal(m.User, bs)
	n += ord.String.Marshal(m.Username, bs[n:])
	n += ord.String.Marshal(m.Server, bs[n:])
	n += ord.String.Marshal(m.Timestamp, bs[n:])
	n += ord.String.Marshal(m.Provider, bs[n:])
	n += ord.String.Marshal(m.Source, bs[n:])
	return n
}

func (metadataMUS) Unmarshal(bs []byte) (m Metadata, n int, err error) {
	var n1 int
	if m.User, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if m.Username, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Server, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Timestamp, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Provider, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Source, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	return m, n, nil
}

func (metadataMUS) Size(m Metadata) (size int) {
	size = ord.String.Size(m.User)
	size += ord.String.Size(m.Username)
	size += ord.String.Size(m.Server)
	size += ord.String.Size(m.Timestamp)
	size += ord.String.Size(m.Provider)
	size += ord.String.Size(m.Source)
	return size
}

func (metadataMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 6; i++ {
		if n1, err = ord.String.Skip(bs[n:]); err != nil {
			return n + n1, err
		}
		n += n1
	}
	return n, nil
}

// DocumentMUS serializes Documents: id, content, metadata, vector, then the
// insertion time in unix microseconds.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (documentMUS) Marshal(d Document, bs []byte) (n int) {
	n = IDMUS.Marshal(d.Id, bs)
	n += ord.String.Marshal(d.Content, bs[n:])
	n += MetadataMUS.Marshal(d.Metadata, bs[n:])
	n += vectorMUS.Marshal(d.Vector, bs[n:])
	n += varint.Int64.Marshal(d.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	var n1 int
	if d.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if d.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Metadata, n1, err = MetadataMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if d.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	d.InsertedAt = time.UnixMicro(micros).UTC()
	return d, n, nil
}

func (documentMUS) Size(d Document) (size int) {
	size = IDMUS.Size(d.Id)
	size += ord.String.Size(d.Content)
	size += MetadataMUS.Size(d.Metadata)
	size += vectorMUS.Size(d.Vector)
	size += varint.Int64.Size(d.InsertedAt.UnixMicro())
	return size
}

func (documentMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = IDMUS.Skip(bs); err != nil {
		return
	}
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = MetadataMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = vectorMUS.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Int64.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	return n + n1, nil
}
