package document

// Doc is an ordered document: a sequence of key/value elements. Key order is
// preserved because commands are order-sensitive on the wire and response
// arrays must surface in server order.
type Doc []Elem

// Elem is a single key/value pair inside a Doc.
type Elem struct {
	Key   string
	Value interface{}
}

// New builds a single-element document. Commands are usually one pair, so
// this keeps call sites short.
func New(key string, value interface{}) Doc {
	return Doc{{Key: key, Value: value}}
}

// Append returns the document extended by one element.
func (d Doc) Append(key string, value interface{}) Doc {
	return append(d, Elem{Key: key, Value: value})
}

// Lookup returns the value of the first element with the given key.
func (d Doc) Lookup(key string) (interface{}, bool) {
	for _, elem := range d {
		if elem.Key == key {
			return elem.Value, true
		}
	}
	return nil, false
}
