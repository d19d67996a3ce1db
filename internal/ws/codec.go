package ws

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec is the wire encoding chosen by a client with ?codec=.
type Codec string

const (
	CodecJSON    Codec = "json"
	CodecMsgpack Codec = "msgpack"
)

// ParseCodec defaults to JSON for anything it does not recognise.
func ParseCodec(s string) Codec {
	if Codec(s) == CodecMsgpack {
		return CodecMsgpack
	}
	return CodecJSON
}

func (c Codec) Marshal(v interface{}) ([]byte, error) {
	if c == CodecMsgpack {
		return msgpack.Marshal(v)
	}
	return json.Marshal(v)
}

func (c Codec) Unmarshal(data []byte, v interface{}) error {
	if c == CodecMsgpack {
		return msgpack.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

// MessageType is the websocket frame type the codec writes.
func (c Codec) MessageType() int {
	if c == CodecMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}
