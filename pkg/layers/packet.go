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

package layers

import (
	"encoding/binary"
	"errors"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// PacketLayerNum identifies the layer
	PacketLayerNum = 2101
	// PacketHeaderSize is the index/seqnr prefix of every captured packet
	PacketHeaderSize = 4
	// FCSValidMask marks a valid radio-level checksum in the high bit of
	// the trailer byte the radio appends in place of the checksum itself.
	// The low seven bits of that byte carry the link quality indicator.
	FCSValidMask = 0x80
)

// PacketLayer is one captured radio packet as streamed by the board.
// Index counts packets seen on the air since the last reset, SeqNr
// counts packets actually sent up the serial link. The payload is the
// radio frame with the radio trailer byte at the end.
type PacketLayer struct {
	layers.BaseLayer
	Index uint16
	SeqNr uint16
}

var PacketLayerType = gopacket.RegisterLayerType(PacketLayerNum,
	gopacket.LayerTypeMetadata{Name: "PacketLayerType", Decoder: gopacket.DecodeFunc(decodePacketLayer)})

func (pl *PacketLayer) LayerType() gopacket.LayerType {
	return PacketLayerType
}

// SerializeTo serializes the packet header into bytes and writes the bytes to the SerializeBuffer
func (pl *PacketLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	buf, err := b.PrependBytes(PacketHeaderSize)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(buf[0:2], pl.Index)
	binary.BigEndian.PutUint16(buf[2:4], pl.SeqNr)
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as a captured packet
func (pl *PacketLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < PacketHeaderSize+1 {
		df.SetTruncated()
		return errors.New("Sniffer packet too short")
	}

	pl.BaseLayer = layers.BaseLayer{
		Contents: data[0:PacketHeaderSize],
		Payload:  data[PacketHeaderSize:],
	}

	pl.Index = binary.BigEndian.Uint16(data[0:2])
	pl.SeqNr = binary.BigEndian.Uint16(data[2:4])
	return nil
}

// FCSValid reports whether the radio verified the packet checksum
func (pl *PacketLayer) FCSValid() bool {
	payload := pl.LayerPayload()
	return len(payload) > 0 && payload[len(payload)-1]&FCSValidMask != 0
}

// LQI returns the link quality indicator from the radio trailer byte
func (pl *PacketLayer) LQI() uint8 {
	payload := pl.LayerPayload()
	if len(payload) == 0 {
		return 0
	}
	return payload[len(payload)-1] &^ FCSValidMask
}

func (pl *PacketLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func decodePacketLayer(data []byte, p gopacket.PacketBuilder) error {
	pl := &PacketLayer{}
	err := pl.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(pl)
	return p.NextDecoder(pl.NextLayerType())
}
