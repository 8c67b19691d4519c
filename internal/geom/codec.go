package geom

import (
	"math"
	"strconv"
	"strings"
)

// PoseFormat controls how EncodePose labels and separates the six fields.
type PoseFormat struct {
	Labels [6]string
	Sep    string
}

// JointFormat controls how EncodeJoints labels, separates and rounds fields.
type JointFormat struct {
	Labels    []string
	Sep       string
	Precision int
}

// DefaultJointLabels is the axis alphabet used by the generic dialect.
var DefaultJointLabels = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}

// XYZWPR is the labelled "X1.000 Y2.000 ..." pose format.
var XYZWPR = PoseFormat{
	Labels: [6]string{"X", "Y", "Z", "R", "P", "W"},
	Sep:    " ",
}

// CSV is an unlabelled, comma separated pose format.
var CSV = PoseFormat{Sep: ", "}

// LabelledJoints is the "A0.000000 B0.000000 ..." joint format.
var LabelledJoints = JointFormat{
	Labels:    DefaultJointLabels,
	Sep:       " ",
	Precision: 6,
}

// EncodePose renders the pose as six fixed-point fields with three decimals.
func EncodePose(p Pose, f PoseFormat) (string, error) {
	if !p.IsFinite() {
		return "", &FormatError{Code: ErrCodeNonFinite, Message: "pose contains a non-finite value"}
	}

	fields := p.XYZRPW()
	var sb strings.Builder
	for i, v := range fields {
		if i > 0 {
			sb.WriteString(f.Sep)
		}
		sb.WriteString(f.Labels[i])
		sb.WriteString(fixed(v, 3))
	}
	return sb.String(), nil
}

// EncodeJoints renders one field per axis in axis order.
// A format without labels is unbounded; otherwise more joints than labels
// is a CapacityError.
func EncodeJoints(joints []float64, f JointFormat) (string, error) {
	if len(f.Labels) > 0 && len(joints) > len(f.Labels) {
		return "", &CapacityError{Axes: len(joints), Capacity: len(f.Labels)}
	}

	var sb strings.Builder
	for i, v := range joints {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", &FormatError{Code: ErrCodeNonFinite, Message: "joint value is not finite", Index: i}
		}
		if i > 0 {
			sb.WriteString(f.Sep)
		}
		if len(f.Labels) > 0 {
			sb.WriteString(f.Labels[i])
		}
		sb.WriteString(fixed(v, f.Precision))
	}
	return sb.String(), nil
}

// fixed formats v with prec decimals. Values that round to zero never carry
// a minus sign.
func fixed(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		return s[1:]
	}
	return s
}
