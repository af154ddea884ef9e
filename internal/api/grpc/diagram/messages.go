package diagram

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/feynman-diagrams/internal/domain/diagram"
)

// Field names used in request and response structs.
const (
	fieldOrder     = "order"
	fieldMaxLevel  = "max_level"
	fieldIndex     = "index"
	fieldDiagrams  = "diagrams"
	fieldSignature = "signature"
	fieldKind      = "kind"
	fieldPathway   = "pathway"
	fieldSign      = "sign"
	fieldSteps     = "steps"
	fieldFormula   = "formula"
	fieldLaTeX     = "latex"
)

// ErrBadMessage is returned when a struct message lacks a field or carries the wrong type.
var ErrBadMessage = errors.New("malformed message")

// EnumerateRequest selects an enumeration.
type EnumerateRequest struct {
	Order    int
	MaxLevel int
}

// RenderRequest selects one diagram of an enumeration by its 1-based index.
type RenderRequest struct {
	EnumerateRequest

	Index int
}

// DiagramInfo is the transport view of one enumerated diagram.
type DiagramInfo struct {
	Index     int
	Signature string
	Kind      string
	Pathway   string
	Sign      int
	Steps     string
	Formula   string
	LaTeX     string
}

// NewDiagramInfo describes the i-th (1-based) entry of an enumeration.
func NewDiagramInfo(index int, e domain.Entry) DiagramInfo {
	info := DiagramInfo{
		Index:     index,
		Signature: e.Diagram.Signature(),
		Sign:      e.Diagram.Sign(),
		Steps:     e.Diagram.String(),
		Formula:   e.Formula,
		LaTeX:     e.LaTeX,
	}

	if kind := e.Diagram.Kind(); kind != domain.Unclassified {
		info.Kind = string(kind)
	}

	if pathway := e.Diagram.Pathway(); pathway != domain.NoPathway {
		info.Pathway = string(pathway)
	}

	return info
}

// ToProto encodes the request.
func (r EnumerateRequest) ToProto() *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldOrder:    structpb.NewNumberValue(float64(r.Order)),
		fieldMaxLevel: structpb.NewNumberValue(float64(r.MaxLevel)),
	}}
}

// ToProto encodes the request.
func (r RenderRequest) ToProto() *structpb.Struct {
	msg := r.EnumerateRequest.ToProto()
	msg.Fields[fieldIndex] = structpb.NewNumberValue(float64(r.Index))

	return msg
}

// ParseEnumerateRequest decodes an Enumerate request. max_level is optional.
func ParseEnumerateRequest(msg *structpb.Struct) (EnumerateRequest, error) {
	var req EnumerateRequest

	order, err := intField(msg, fieldOrder, true)
	if err != nil {
		return req, err
	}

	maxLevel, err := intField(msg, fieldMaxLevel, false)
	if err != nil {
		return req, err
	}

	req.Order, req.MaxLevel = order, maxLevel

	return req, nil
}

// ParseRenderRequest decodes a Render request.
func ParseRenderRequest(msg *structpb.Struct) (RenderRequest, error) {
	base, err := ParseEnumerateRequest(msg)
	if err != nil {
		return RenderRequest{}, err
	}

	index, err := intField(msg, fieldIndex, true)
	if err != nil {
		return RenderRequest{}, err
	}

	return RenderRequest{EnumerateRequest: base, Index: index}, nil
}

// EncodeDiagrams builds the Enumerate response.
func EncodeDiagrams(infos []DiagramInfo) (*structpb.Struct, error) {
	list := make([]any, 0, len(infos))

	for _, info := range infos {
		list = append(list, map[string]any{
			fieldIndex:     info.Index,
			fieldSignature: info.Signature,
			fieldKind:      info.Kind,
			fieldPathway:   info.Pathway,
			fieldSign:      info.Sign,
			fieldSteps:     info.Steps,
			fieldFormula:   info.Formula,
			fieldLaTeX:     info.LaTeX,
		})
	}

	msg, err := structpb.NewStruct(map[string]any{fieldDiagrams: list})
	if err != nil {
		return nil, fmt.Errorf("encode diagrams: %w", err)
	}

	return msg, nil
}

// DecodeDiagrams reads an Enumerate response.
func DecodeDiagrams(msg *structpb.Struct) ([]DiagramInfo, error) {
	value, ok := msg.GetFields()[fieldDiagrams]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrBadMessage, fieldDiagrams)
	}

	list := value.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%w: %q is not a list", ErrBadMessage, fieldDiagrams)
	}

	infos := make([]DiagramInfo, 0, len(list.GetValues()))

	for i, item := range list.GetValues() {
		entry := item.GetStructValue()
		if entry == nil {
			return nil, fmt.Errorf("%w: diagram %d is not a struct", ErrBadMessage, i+1)
		}

		index, err := intField(entry, fieldIndex, true)
		if err != nil {
			return nil, err
		}

		sign, err := intField(entry, fieldSign, true)
		if err != nil {
			return nil, err
		}

		fields := entry.GetFields()
		infos = append(infos, DiagramInfo{
			Index:     index,
			Signature: fields[fieldSignature].GetStringValue(),
			Kind:      fields[fieldKind].GetStringValue(),
			Pathway:   fields[fieldPathway].GetStringValue(),
			Sign:      sign,
			Steps:     fields[fieldSteps].GetStringValue(),
			Formula:   fields[fieldFormula].GetStringValue(),
			LaTeX:     fields[fieldLaTeX].GetStringValue(),
		})
	}

	return infos, nil
}

// intField reads an integral number field.
func intField(msg *structpb.Struct, name string, required bool) (int, error) {
	value, ok := msg.GetFields()[name]
	if !ok {
		if required {
			return 0, fmt.Errorf("%w: missing %q", ErrBadMessage, name)
		}

		return 0, nil
	}

	number, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not a number", ErrBadMessage, name)
	}

	f := number.NumberValue
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrBadMessage, name)
	}

	return int(f), nil
}
