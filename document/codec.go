package document

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Codec translates between ordered documents and their wire representation.
//
// Implementations must be safe for concurrent use; a single codec instance is
// shared by every database handle of a client.
type Codec interface {
	Marshal(doc Doc) ([]byte, error)
	Unmarshal(data []byte) (Doc, error)
}

type bsonCodec struct{}

// NewBSONCodec returns the default codec backed by the driver's BSON
// implementation.
func NewBSONCodec() Codec {
	return bsonCodec{}
}

func (bsonCodec) Marshal(doc Doc) ([]byte, error) {
	data, err := bson.Marshal(toBSON(doc))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func (bsonCodec) Unmarshal(data []byte) (Doc, error) {
	var raw bson.D
	if err := bson.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return fromBSON(raw), nil
}

func toBSON(doc Doc) bson.D {
	out := make(bson.D, 0, len(doc))
	for _, elem := range doc {
		out = append(out, bson.E{Key: elem.Key, Value: toBSONValue(elem.Value)})
	}
	return out
}

func toBSONValue(value interface{}) interface{} {
	switch v := value.(type) {
	case Doc:
		return toBSON(v)
	case []interface{}:
		arr := make(bson.A, 0, len(v))
		for _, entry := range v {
			arr = append(arr, toBSONValue(entry))
		}
		return arr
	default:
		return value
	}
}

func fromBSON(d bson.D) Doc {
	out := make(Doc, 0, len(d))
	for _, elem := range d {
		out = append(out, Elem{Key: elem.Key, Value: fromBSONValue(elem.Value)})
	}
	return out
}

func fromBSONValue(value interface{}) interface{} {
	switch v := value.(type) {
	case bson.D:
		return fromBSON(v)
	case bson.A:
		arr := make([]interface{}, 0, len(v))
		for _, entry := range v {
			arr = append(arr, fromBSONValue(entry))
		}
		return arr
	default:
		return value
	}
}
