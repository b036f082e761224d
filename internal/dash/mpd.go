package dash

import (
	"encoding/xml"
	"fmt"

	"kinedl/internal/errs"
)

// MPD is the root element of a Media Presentation Description. Only the
// SegmentList flavor of the schema is modeled; that is what the Kinescope
// origin serves.
type MPD struct {
	XMLName                   xml.Name `xml:"MPD"`
	Type                      string   `xml:"type,attr"`
	Profiles                  string   `xml:"profiles,attr"`
	MediaPresentationDuration string   `xml:"mediaPresentationDuration,attr"`
	MinBufferTime             string   `xml:"minBufferTime,attr"`
	Periods                   []Period `xml:"Period"`
}

// Period represents a media content period.
type Period struct {
	ID       string          `xml:"id,attr"`
	Duration string          `xml:"duration,attr"`
	Sets     []AdaptationSet `xml:"AdaptationSet"`
}

// AdaptationSet represents a set of interchangeable representations.
// By convention of the origin, set 0 is video and set 1 is audio.
type AdaptationSet struct {
	ID              string           `xml:"id,attr"`
	ContentType     string           `xml:"contentType,attr"`
	MimeType        string           `xml:"mimeType,attr"`
	MaxWidth        int              `xml:"maxWidth,attr,omitempty"`
	MaxHeight       int              `xml:"maxHeight,attr,omitempty"`
	Representations []Representation `xml:"Representation"`
}

// Representation represents one encoded variant of a media stream.
type Representation struct {
	ID          string      `xml:"id,attr"`
	Bandwidth   int         `xml:"bandwidth,attr"`
	Codecs      string      `xml:"codecs,attr"`
	Width       int         `xml:"width,attr,omitempty"`
	Height      int         `xml:"height,attr,omitempty"`
	SegmentList SegmentList `xml:"SegmentList"`
}

// SegmentList carries the byte-range layout of a representation: one
// initialization segment plus an ordered list of body segments.
type SegmentList struct {
	Timescale      int            `xml:"timescale,attr"`
	Duration       int            `xml:"duration,attr"`
	Initialization Initialization `xml:"Initialization"`
	SegmentURLs    []SegmentURL   `xml:"SegmentURL"`
}

// Initialization locates a representation's init segment.
type Initialization struct {
	SourceURL string `xml:"sourceURL,attr"`
	Range     string `xml:"range,attr"`
}

// SegmentURL locates one body segment as a URL plus an inclusive byte range.
type SegmentURL struct {
	Media      string `xml:"media,attr"`
	MediaRange string `xml:"mediaRange,attr"`
}

// shapeErrorf builds an error classified as errs.ErrManifestShape.
func shapeErrorf(format string, v ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{errs.ErrManifestShape}, v...)...)
}

// Validate fails fast if the manifest does not have the structure the
// pipeline depends on: at least one period, a video adaptation set at
// position 0 with a declared maxWidth, an audio adaptation set at position 1
// with exactly one representation, and a well-formed segment list on every
// representation.
func (m *MPD) Validate() error {
	if len(m.Periods) == 0 {
		return shapeErrorf("manifest has no Period")
	}
	sets := m.Periods[0].Sets
	if len(sets) < 2 {
		return shapeErrorf("expected two adaptation sets (video, audio), got %d", len(sets))
	}

	video := &sets[0]
	if video.MaxWidth <= 0 {
		return shapeErrorf("video adaptation set missing maxWidth")
	}
	if len(video.Representations) == 0 {
		return shapeErrorf("video adaptation set has no representations")
	}
	for i := range video.Representations {
		if err := validateRepresentation(&video.Representations[i]); err != nil {
			return err
		}
	}

	audio := &sets[1]
	if len(audio.Representations) != 1 {
		return shapeErrorf("expected exactly one audio representation, got %d", len(audio.Representations))
	}
	return validateRepresentation(&audio.Representations[0])
}

func validateRepresentation(rep *Representation) error {
	if _, err := InitSegment(rep); err != nil {
		return err
	}
	_, err := BodySegments(rep)
	return err
}
