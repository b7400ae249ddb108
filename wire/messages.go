// Package wire implements the software.v1 message envelopes described in
// software_v1.proto. There is no protoc toolchain available in this
// module's build, so the wire format is produced and parsed by hand
// against the protowire primitives instead of generated code — see
// DESIGN.md for why, and the .proto file for the schema these types
// mirror field-for-field.
package wire

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// LicenseError mirrors the software.v1.LicenseError enum. Unknown values
// decode to LicenseErrorInternal.
type LicenseError int32

const (
	LicenseErrorExpired         LicenseError = 0
	LicenseErrorInvalidKey      LicenseError = 1
	LicenseErrorTooManySessions LicenseError = 2
	LicenseErrorRevoked         LicenseError = 3
	LicenseErrorInternal        LicenseError = 4
)

func (e LicenseError) String() string {
	switch e {
	case LicenseErrorExpired:
		return "EXPIRED"
	case LicenseErrorInvalidKey:
		return "INVALID_KEY"
	case LicenseErrorTooManySessions:
		return "TOO_MANY_SESSIONS"
	case LicenseErrorRevoked:
		return "REVOKED"
	case LicenseErrorInternal:
		return "INTERNAL"
	default:
		return "INTERNAL"
	}
}

// NormalizeLicenseError maps any wire value outside the known enum set to
// LicenseErrorInternal, so a future enum addition degrades gracefully
// instead of propagating an unrecognized code.
func NormalizeLicenseError(v int32) LicenseError {
	switch LicenseError(v) {
	case LicenseErrorExpired, LicenseErrorInvalidKey, LicenseErrorTooManySessions, LicenseErrorRevoked, LicenseErrorInternal:
		return LicenseError(v)
	default:
		return LicenseErrorInternal
	}
}

// InfoRequestPayload is software.v1.InfoRequestPayload.
type InfoRequestPayload struct {
	KeyID string
}

func (m *InfoRequestPayload) Marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	var b []byte
	if m.KeyID != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.KeyID)
	}
	return b, nil
}

func (m *InfoRequestPayload) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: InfoRequestPayload: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return fmt.Errorf("wire: InfoRequestPayload.key_id: %w", protowire.ParseError(n))
			}
			m.KeyID = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: InfoRequestPayload: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// InfoRequest is software.v1.InfoRequest.
type InfoRequest struct {
	Req   *InfoRequestPayload
	Nonce uint64
}

func (m *InfoRequest) Marshal() ([]byte, error) {
	var b []byte
	if m.Req != nil {
		sub, err := m.Req.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	}
	if m.Nonce != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, m.Nonce)
	}
	return b, nil
}

func (m *InfoRequest) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: InfoRequest: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: InfoRequest.req: %w", protowire.ParseError(n))
			}
			m.Req = &InfoRequestPayload{}
			if err := m.Req.Unmarshal(sub); err != nil {
				return err
			}
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("wire: InfoRequest.nonce: %w", protowire.ParseError(n))
			}
			m.Nonce = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: InfoRequest: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// ClientHeartbeat is software.v1.ClientHeartbeat.
type ClientHeartbeat struct {
	Nonce uint64
}

func (m *ClientHeartbeat) Marshal() ([]byte, error) {
	var b []byte
	if m.Nonce != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, m.Nonce)
	}
	return b, nil
}

func (m *ClientHeartbeat) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: ClientHeartbeat: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("wire: ClientHeartbeat.nonce: %w", protowire.ParseError(n))
			}
			m.Nonce = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: ClientHeartbeat: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// ClientMessage is software.v1.ClientMessage. Exactly one of Auth or
// Heartbeat is populated, mirroring the proto3 "data" oneof.
type ClientMessage struct {
	Auth      *InfoRequest
	Heartbeat *ClientHeartbeat
}

func (m *ClientMessage) Marshal() ([]byte, error) {
	var b []byte
	switch {
	case m.Auth != nil:
		sub, err := m.Auth.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	case m.Heartbeat != nil:
		sub, err := m.Heartbeat.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	}
	return b, nil
}

func (m *ClientMessage) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: ClientMessage: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: ClientMessage.auth: %w", protowire.ParseError(n))
			}
			m.Auth = &InfoRequest{}
			if err := m.Auth.Unmarshal(sub); err != nil {
				return err
			}
			b = b[n:]
		case 2:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: ClientMessage.heartbeat: %w", protowire.ParseError(n))
			}
			m.Heartbeat = &ClientHeartbeat{}
			if err := m.Heartbeat.Unmarshal(sub); err != nil {
				return err
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: ClientMessage: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// Response is software.v1.Response — the signed sub-message of the ok
// variant of InfoResponse.
type Response struct {
	Expiry    time.Time
	ExtraData string
}

func (m *Response) Marshal() ([]byte, error) {
	var b []byte
	if !m.Expiry.IsZero() {
		tsBytes, err := proto.Marshal(timestamppb.New(m.Expiry))
		if err != nil {
			return nil, fmt.Errorf("wire: Response.expiry: %w", err)
		}
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, tsBytes)
	}
	if m.ExtraData != "" {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendString(b, m.ExtraData)
	}
	return b, nil
}

func (m *Response) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: Response: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: Response.expiry: %w", protowire.ParseError(n))
			}
			var ts timestamppb.Timestamp
			if err := proto.Unmarshal(sub, &ts); err != nil {
				return fmt.Errorf("wire: Response.expiry: %w", err)
			}
			m.Expiry = ts.AsTime()
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return fmt.Errorf("wire: Response.extra_data: %w", protowire.ParseError(n))
			}
			m.ExtraData = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: Response: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// InfoResponse is software.v1.InfoResponse. Exactly one of Ok or Error is
// populated, mirroring the proto3 "result" oneof.
type InfoResponse struct {
	Nonce     uint64
	Signature []byte
	Ok        *Response
	Error     *LicenseError
}

func (m *InfoResponse) Marshal() ([]byte, error) {
	var b []byte
	if m.Nonce != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, m.Nonce)
	}
	if len(m.Signature) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Signature)
	}
	switch {
	case m.Ok != nil:
		sub, err := m.Ok.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	case m.Error != nil:
		b = protowire.AppendTag(b, 4, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(uint32(int32(*m.Error))))
	}
	return b, nil
}

func (m *InfoResponse) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: InfoResponse: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("wire: InfoResponse.nonce: %w", protowire.ParseError(n))
			}
			m.Nonce = v
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: InfoResponse.signature: %w", protowire.ParseError(n))
			}
			m.Signature = append([]byte(nil), v...)
			b = b[n:]
		case 3:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: InfoResponse.ok: %w", protowire.ParseError(n))
			}
			m.Ok = &Response{}
			if err := m.Ok.Unmarshal(sub); err != nil {
				return err
			}
			b = b[n:]
		case 4:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("wire: InfoResponse.error: %w", protowire.ParseError(n))
			}
			e := NormalizeLicenseError(int32(v))
			m.Error = &e
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: InfoResponse: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// ServerHeartbeatData is software.v1.ServerHeartbeatData — the signed
// sub-message of ServerHeartbeat. Error is nil when unset (proto3
// "optional" presence).
type ServerHeartbeatData struct {
	Error *LicenseError
}

func (m *ServerHeartbeatData) Marshal() ([]byte, error) {
	var b []byte
	if m.Error != nil {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(uint32(int32(*m.Error))))
	}
	return b, nil
}

func (m *ServerHeartbeatData) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: ServerHeartbeatData: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("wire: ServerHeartbeatData.error: %w", protowire.ParseError(n))
			}
			e := NormalizeLicenseError(int32(v))
			m.Error = &e
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: ServerHeartbeatData: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// ServerHeartbeat is software.v1.ServerHeartbeat.
type ServerHeartbeat struct {
	Nonce     uint64
	Signature []byte
	Data      *ServerHeartbeatData
}

func (m *ServerHeartbeat) Marshal() ([]byte, error) {
	var b []byte
	if m.Nonce != 0 {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, m.Nonce)
	}
	if len(m.Signature) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Signature)
	}
	if m.Data != nil {
		sub, err := m.Data.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 3, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	}
	return b, nil
}

func (m *ServerHeartbeat) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: ServerHeartbeat: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("wire: ServerHeartbeat.nonce: %w", protowire.ParseError(n))
			}
			m.Nonce = v
			b = b[n:]
		case 2:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: ServerHeartbeat.signature: %w", protowire.ParseError(n))
			}
			m.Signature = append([]byte(nil), v...)
			b = b[n:]
		case 3:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: ServerHeartbeat.data: %w", protowire.ParseError(n))
			}
			m.Data = &ServerHeartbeatData{}
			if err := m.Data.Unmarshal(sub); err != nil {
				return err
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: ServerHeartbeat: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// ServerMessage is software.v1.ServerMessage. Exactly one of Auth or
// Heartbeat is populated, mirroring the proto3 "data" oneof.
type ServerMessage struct {
	Auth      *InfoResponse
	Heartbeat *ServerHeartbeat
}

func (m *ServerMessage) Marshal() ([]byte, error) {
	var b []byte
	switch {
	case m.Auth != nil:
		sub, err := m.Auth.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	case m.Heartbeat != nil:
		sub, err := m.Heartbeat.Marshal()
		if err != nil {
			return nil, err
		}
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, sub)
	}
	return b, nil
}

func (m *ServerMessage) Unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("wire: ServerMessage: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch num {
		case 1:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: ServerMessage.auth: %w", protowire.ParseError(n))
			}
			m.Auth = &InfoResponse{}
			if err := m.Auth.Unmarshal(sub); err != nil {
				return err
			}
			b = b[n:]
		case 2:
			sub, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("wire: ServerMessage.heartbeat: %w", protowire.ParseError(n))
			}
			m.Heartbeat = &ServerHeartbeat{}
			if err := m.Heartbeat.Unmarshal(sub); err != nil {
				return err
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("wire: ServerMessage: bad field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}
