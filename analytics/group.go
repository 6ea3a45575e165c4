package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"property-analytics/models"
)

// GroupMean is the mean of one group. Mean is nil when no listing qualified.
type GroupMean struct {
	Group float64
	Mean  *float64
	Count int
}

// GroupMeans holds one entry per requested group value, in request order.
type GroupMeans []GroupMean

// Lookup returns the mean for group and whether it is available.
func (g GroupMeans) Lookup(group float64) (float64, bool) {
	for _, m := range g {
		if m.Group == group {
			if m.Mean == nil {
				return 0, false
			}
			return *m.Mean, true
		}
	}
	return 0, false
}

// MarshalJSON encodes the groups as an object keyed by group value, with
// null for unavailable means: {"0":300000,"1":625000,"2":null}.
func (g GroupMeans) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(strconv.FormatFloat(m.Group, 'f', -1, 64))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if m.Mean == nil {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(*m.Mean)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GroupAverage computes, for each value in groupValues, the mean of valueKey
// over listings whose groupKey equals that value exactly and whose valueKey
// is present. Listings whose groupKey matches none of groupValues are
// ignored.
func GroupAverage(
	listings []models.DerivedListing,
	groupKey Attribute,
	groupValues []float64,
	valueKey Attribute,
) (GroupMeans, error) {
	if !groupKey.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAttribute, string(groupKey))
	}
	if !valueKey.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAttribute, string(valueKey))
	}

	out := make(GroupMeans, len(groupValues))
	for i, gv := range groupValues {
		if math.IsNaN(gv) {
			return nil, fmt.Errorf("%w: group value is not a number", ErrInvalidAttribute)
		}

		var sum float64
		var n int
		for _, l := range listings {
			k, ok := groupKey.Value(l)
			if !ok || k != gv {
				continue
			}
			v, ok := valueKey.Value(l)
			if !ok {
				continue
			}
			sum += v
			n++
		}

		out[i] = GroupMean{Group: gv, Count: n}
		if n > 0 {
			mean := sum / float64(n)
			out[i].Mean = &mean
		}
	}
	return out, nil
}
