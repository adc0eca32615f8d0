/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package layers defines the messages exchanged with the sniffer board
// over the framed serial link: control messages in both directions and
// the captured radio packets streamed by the board.
package layers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// ControlLayerNum identifies the layer
	ControlLayerNum = 2100
)

// Radio channel bounds accepted by the sniffer firmware. The board
// silently ignores a reset request carrying a channel outside of them.
const (
	MinChannel = 11
	MaxChannel = 26
)

type ControlType int

const (
	ControlReset ControlType = iota
	ControlReady
	ControlAck
	ControlNack
	ControlStop
)

var controlTags = map[ControlType][]byte{
	ControlReset: []byte("RST"),
	ControlReady: []byte("READY"),
	ControlAck:   []byte("ACK"),
	ControlNack:  []byte("NACK"),
	ControlStop:  []byte("STOP"),
}

// Tag returns the ASCII tag the control message starts with on the wire
func (t ControlType) Tag() []byte {
	return controlTags[t]
}

func (t ControlType) String() string {
	return string(controlTags[t])
}

// ControlLayer is a control message. Reset carries the radio channel to
// listen on, Ack and Nack carry the index and sequence number of the
// last accepted packet, Ready and Stop are bare tags.
type ControlLayer struct {
	layers.BaseLayer
	Type    ControlType
	Channel uint8
	Index   uint16
	SeqNr   uint16
}

var ControlLayerType = gopacket.RegisterLayerType(ControlLayerNum,
	gopacket.LayerTypeMetadata{Name: "ControlLayerType", Decoder: gopacket.DecodeFunc(decodeControlLayer)})

func (c *ControlLayer) LayerType() gopacket.LayerType {
	return ControlLayerType
}

// NewReset creates the control message that restarts the board and tunes
// its radio to the given channel
func NewReset(channel uint8) *ControlLayer {
	return &ControlLayer{Type: ControlReset, Channel: channel}
}

// NewAck creates the control message acknowledging all packets up to and
// including the one carrying the given index and sequence number
func NewAck(index, seqNr uint16) *ControlLayer {
	return &ControlLayer{Type: ControlAck, Index: index, SeqNr: seqNr}
}

// NewNack creates the control message asking the board to resume after
// the packet carrying the given index and sequence number
func NewNack(index, seqNr uint16) *ControlLayer {
	return &ControlLayer{Type: ControlNack, Index: index, SeqNr: seqNr}
}

// NewStop creates the control message that stops the capture stream
func NewStop() *ControlLayer {
	return &ControlLayer{Type: ControlStop}
}

// SerializeTo serializes the control message into bytes and writes the bytes to the SerializeBuffer
func (c *ControlLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	tag := c.Type.Tag()
	switch c.Type {
	case ControlReset:
		buf, err := b.PrependBytes(len(tag) + 1)
		if err != nil {
			return err
		}
		copy(buf, tag)
		buf[len(tag)] = c.Channel
	case ControlAck, ControlNack:
		buf, err := b.PrependBytes(len(tag) + 4)
		if err != nil {
			return err
		}
		copy(buf, tag)
		binary.BigEndian.PutUint16(buf[len(tag):], c.Index)
		binary.BigEndian.PutUint16(buf[len(tag)+2:], c.SeqNr)
	case ControlReady, ControlStop:
		buf, err := b.PrependBytes(len(tag))
		if err != nil {
			return err
		}
		copy(buf, tag)
	default:
		return errors.New(fmt.Sprintf("Unknown control type: %d", c.Type))
	}
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a control message.
// Tags are matched together with the exact argument length so that a
// radio packet whose payload merely starts with a tag is not mistaken
// for a control message.
func (c *ControlLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	switch {
	case bytes.Equal(data, controlTags[ControlReady]):
		c.Type = ControlReady
	case bytes.Equal(data, controlTags[ControlStop]):
		c.Type = ControlStop
	case len(data) == 4 && bytes.HasPrefix(data, controlTags[ControlReset]):
		c.Type = ControlReset
		c.Channel = data[3]
	case len(data) == 7 && bytes.HasPrefix(data, controlTags[ControlAck]):
		c.Type = ControlAck
		c.Index = binary.BigEndian.Uint16(data[3:5])
		c.SeqNr = binary.BigEndian.Uint16(data[5:7])
	case len(data) == 8 && bytes.HasPrefix(data, controlTags[ControlNack]):
		c.Type = ControlNack
		c.Index = binary.BigEndian.Uint16(data[4:6])
		c.SeqNr = binary.BigEndian.Uint16(data[6:8])
	default:
		return errors.New("Not a control message")
	}
	c.BaseLayer = layers.BaseLayer{
		Contents: data[:],
		Payload:  []byte{},
	}
	return nil
}

func decodeControlLayer(data []byte, p gopacket.PacketBuilder) error {
	c := &ControlLayer{}
	err := c.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(c)
	return nil
}

// IsReady reports whether a deframed message is the READY announcement
// the board sends after a reset. The receive loop treats one in the
// middle of a session as a board reboot.
func IsReady(msg []byte) bool {
	return bytes.Equal(msg, controlTags[ControlReady])
}

// ValidateChannel checks that a channel number is one the firmware accepts
func ValidateChannel(channel int) error {
	if channel < MinChannel || channel > MaxChannel {
		return ErrChannelOutOfRange{Channel: channel}
	}
	return nil
}
