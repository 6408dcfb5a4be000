package httpclient

import (
	"fmt"
	"math"
	"sync"
	"time"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

type dateMode int

const (
	dateLayout dateMode = iota
	dateUnixSeconds
	dateUnixMillis
)

// DateDecoding says how time.Time fields of a response model are read.
// The zero value parses RFC 3339 strings.
type DateDecoding struct {
	mode   dateMode
	layout string
}

var (
	// DatesRFC3339 parses RFC 3339 strings, with or without fractional seconds.
	DatesRFC3339 = DateDecoding{mode: dateLayout, layout: time.RFC3339}
	// DatesUnixSeconds reads numbers as seconds since the Unix epoch.
	DatesUnixSeconds = DateDecoding{mode: dateUnixSeconds}
	// DatesUnixMillis reads numbers as milliseconds since the Unix epoch.
	DatesUnixMillis = DateDecoding{mode: dateUnixMillis}
)

// DatesFormatted parses strings with a time.Parse layout.
func DatesFormatted(layout string) DateDecoding {
	return DateDecoding{mode: dateLayout, layout: layout}
}

func (d DateDecoding) String() string {
	switch d.mode {
	case dateUnixSeconds:
		return "unix-seconds"
	case dateUnixMillis:
		return "unix-millis"
	default:
		return "layout(" + d.effectiveLayout() + ")"
	}
}

func (d DateDecoding) effectiveLayout() string {
	if d.layout == "" {
		return time.RFC3339
	}
	return d.layout
}

func (d DateDecoding) fromNumber(n float64) time.Time {
	switch d.mode {
	case dateUnixMillis:
		return time.UnixMilli(int64(n)).UTC()
	default:
		sec, frac := math.Modf(n)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC()
	}
}

type timeDecoder struct {
	policy DateDecoding
}

func (d timeDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		*(*time.Time)(ptr) = time.Time{}
	case jsoniter.StringValue:
		s := iter.ReadString()
		if d.policy.mode != dateLayout {
			iter.ReportError("decode time", fmt.Sprintf("expected a number for %s dates, got %q", d.policy, s))
			return
		}
		t, err := time.Parse(d.policy.effectiveLayout(), s)
		if err != nil {
			iter.ReportError("decode time", err.Error())
			return
		}
		*(*time.Time)(ptr) = t
	case jsoniter.NumberValue:
		n := iter.ReadFloat64()
		if d.policy.mode == dateLayout {
			iter.ReportError("decode time", fmt.Sprintf("expected a string for %s dates, got %v", d.policy, n))
			return
		}
		*(*time.Time)(ptr) = d.policy.fromNumber(n)
	default:
		iter.ReportError("decode time", "expected a string or number")
		iter.Skip()
	}
}

var (
	decodeAPIs sync.Map // DateDecoding -> jsoniter.API

	bodyAPI = jsoniter.Config{
		EscapeHTML:  true,
		SortMapKeys: true,
	}.Froze()
)

// apiFor returns a decoder configuration for the policy, created once.
func apiFor(policy DateDecoding) jsoniter.API {
	if policy.mode == dateLayout && policy.layout == "" {
		policy = DatesRFC3339
	}
	if api, ok := decodeAPIs.Load(policy); ok {
		return api.(jsoniter.API)
	}

	api := jsoniter.Config{
		EscapeHTML:             true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(jsoniter.DecoderExtension{
		reflect2.TypeOf(time.Time{}): timeDecoder{policy: policy},
	})

	actual, _ := decodeAPIs.LoadOrStore(policy, api)
	return actual.(jsoniter.API)
}
