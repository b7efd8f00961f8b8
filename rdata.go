// Package rdata reads R serialization streams into a generic tabular data
// model, without the R runtime.
//
// Two stream framings are supported: RDS files holding a single serialized
// object (saveRDS), and RData workspace files holding named bindings
// (save). Streams may be wrapped in gzip, bzip2, xz, or zstd containers;
// the compression is detected from the magic bytes. Both serialization
// versions in current use (2 and 3) and all three wire modes (XDR binary,
// native binary, ASCII) are handled.
//
// # Basic Usage
//
// Reading an RDS file holding a data frame:
//
//	res, err := rdata.ReadFile("scores.rds")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table := res.Value().Table
//	for _, col := range table.Columns {
//	    fmt.Printf("%s (%s), %d rows\n", col.Name, col.Type, col.Len())
//	}
//
// Reading selected objects out of a workspace:
//
//	res, err := rdata.ReadFile("models.RData", rdata.WithObjects("fit", "residuals"))
//	for _, obj := range res.Objects {
//	    fmt.Println(obj.Name)
//	}
//
// Decoding is read-only and deterministic: the same bytes always produce
// the same result, and any damage to the stream fails the whole decode
// with an error positioned at the offending byte offset (see the errs
// package). Independent decodes share no state and may run concurrently.
//
// Objects that need the R runtime to mean anything (closures,
// environments, promises, S4 instances) are reported as unsupported, never
// emulated.
package rdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rdatakit/rdata/compress"
	"github.com/rdatakit/rdata/errs"
	"github.com/rdatakit/rdata/format"
	"github.com/rdatakit/rdata/frame"
	"github.com/rdatakit/rdata/internal/options"
	"github.com/rdatakit/rdata/section"
	"github.com/rdatakit/rdata/sexp"
)

// Object is one decoded top-level value. RDS streams produce a single
// Object with an empty name.
type Object struct {
	Name  string
	Value frame.Value
}

// Result is the product of decoding one stream.
type Result struct {
	Format      format.FormatType
	Compression format.CompressionType

	// Version is the serialization format version from the header.
	Version int

	// WriterRelease is the release version of the writer, as declared in
	// the header.
	WriterRelease string

	// Objects holds the decoded values in stream order.
	Objects []Object
}

// Object returns the named object, or nil when absent.
func (r *Result) Object(name string) *Object {
	for i := range r.Objects {
		if r.Objects[i].Name == name {
			return &r.Objects[i]
		}
	}

	return nil
}

// Value returns the decoded value of an RDS stream, or the zero Value when
// the result holds no objects.
func (r *Result) Value() frame.Value {
	if len(r.Objects) == 0 {
		return frame.Value{}
	}

	return r.Objects[0].Value
}

type config struct {
	objects  map[string]struct{}
	timezone *time.Location
}

// Option configures a decode call.
type Option = options.Option[*config]

// WithObjects restricts a workspace decode to the named objects. Names are
// case sensitive; unknown names are ignored.
func WithObjects(names ...string) Option {
	return options.NoError(func(c *config) {
		if c.objects == nil {
			c.objects = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			c.objects[n] = struct{}{}
		}
	})
}

// WithTimezone sets the zone label attached to DateTime columns that carry
// no tzone attribute of their own. The stored values are epoch seconds
// either way; the zone never shifts them.
func WithTimezone(loc *time.Location) Option {
	return options.New(func(c *config) error {
		if loc == nil {
			return errors.New("rdata: nil location")
		}
		c.timezone = loc

		return nil
	})
}

// Read decodes one RDS or RData stream from r.
func Read(r io.Reader, opts ...Option) (*Result, error) {
	cfg := &config{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	br := bufio.NewReader(r)
	plain, ctype, err := compress.Open(br)
	if err != nil {
		return nil, errs.Wrap(0, errs.ErrUnreadableStream, err, "opening compressed stream")
	}
	if rc, ok := plain.(io.ReadCloser); ok {
		defer rc.Close()
	}

	hdr, cur, err := section.Parse(asBufio(plain))
	if err != nil {
		return nil, err
	}

	dec := sexp.NewDecoder(cur, hdr.Version)
	bodyStart := cur.Offset()
	top, err := dec.ReadItem()
	if err != nil {
		if errors.Is(err, io.EOF) && cur.Offset() == bodyStart {
			return nil, errs.At(bodyStart, errs.ErrEmptyStream, "no top-level object after header")
		}

		return nil, err
	}

	mapper := frame.Mapper{}
	if cfg.timezone != nil {
		mapper.DefaultTimeZone = cfg.timezone.String()
	}

	res := &Result{
		Format:        hdr.Format,
		Compression:   ctype,
		Version:       hdr.Version,
		WriterRelease: hdr.WriterRelease(),
	}

	if hdr.Format == format.FormatRData {
		res.Objects, err = mapWorkspace(mapper, top, cfg)
		if err != nil {
			return nil, err
		}

		return res, nil
	}

	v, err := mapper.MapValue(top)
	if err != nil {
		return nil, err
	}
	res.Objects = []Object{{Value: v}}

	return res, nil
}

// mapWorkspace converts the tagged pairlist a workspace serializes its
// bindings as into named objects, preserving stream order.
func mapWorkspace(m frame.Mapper, top *sexp.Node, cfg *config) ([]Object, error) {
	switch top.Kind {
	case sexp.KindNull:
		return nil, nil
	case sexp.KindPairlist:
	default:
		return nil, fmt.Errorf("%w: workspace payload is %s, want pairlist", errs.ErrMalformedRecord, top.Kind)
	}

	seen := make(map[string]struct{}, len(top.Pairs))
	objs := make([]Object, 0, len(top.Pairs))
	for _, p := range top.Pairs {
		if p.Tag == "" {
			return nil, fmt.Errorf("%w: unnamed workspace binding", errs.ErrMalformedRecord)
		}
		if _, dup := seen[p.Tag]; dup {
			return nil, fmt.Errorf("%w: duplicate object %q", errs.ErrMalformedRecord, p.Tag)
		}
		seen[p.Tag] = struct{}{}

		if cfg.objects != nil {
			if _, want := cfg.objects[p.Tag]; !want {
				continue
			}
		}

		v, err := m.MapValue(p.Value)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", p.Tag, err)
		}
		objs = append(objs, Object{Name: p.Tag, Value: v})
	}

	return objs, nil
}

// ReadFile decodes the RDS or RData file at path.
func ReadFile(path string, opts ...Option) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rdata: %w", err)
	}
	defer f.Close()

	res, err := Read(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("rdata: reading %s: %w", path, err)
	}

	return res, nil
}

// ObjectInfo describes one stored object, as reported by ListObjects.
type ObjectInfo struct {
	Name string

	// Columns lists the column names when the object is a data frame,
	// nil otherwise.
	Columns []string
}

// ListObjects reports the objects stored in an RDS or RData file together
// with their column names.
func ListObjects(path string) ([]ObjectInfo, error) {
	res, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	infos := make([]ObjectInfo, 0, len(res.Objects))
	for _, o := range res.Objects {
		info := ObjectInfo{Name: o.Name}
		if o.Value.Table != nil {
			info.Columns = o.Value.Table.ColumnNames()
		}
		infos = append(infos, info)
	}

	return infos, nil
}

func asBufio(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}

	return bufio.NewReader(r)
}
