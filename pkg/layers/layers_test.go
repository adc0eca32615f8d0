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
	"testing"

	"github.com/google/gopacket"
	"github.com/stretchr/testify/require"
)

func serialize(t *testing.T, ls ...gopacket.SerializableLayer) []byte {
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, ls...)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestControlSerialize(t *testing.T) {
	tests := []struct {
		control *ControlLayer
		want    []byte
	}{
		{NewReset(26), []byte{'R', 'S', 'T', 26}},
		{NewReset(11), []byte{'R', 'S', 'T', 11}},
		{NewAck(3, 9), []byte{'A', 'C', 'K', 0x00, 0x03, 0x00, 0x09}},
		{NewNack(0x0102, 0x0304), []byte{'N', 'A', 'C', 'K', 0x01, 0x02, 0x03, 0x04}},
		{NewStop(), []byte("STOP")},
	}
	for _, test := range tests {
		require.Equal(t, test.want, serialize(t, test.control))
	}
}

func TestControlDecode(t *testing.T) {
	tests := []struct {
		data []byte
		want ControlLayer
	}{
		{[]byte("READY"), ControlLayer{Type: ControlReady}},
		{[]byte("STOP"), ControlLayer{Type: ControlStop}},
		{[]byte{'R', 'S', 'T', 26}, ControlLayer{Type: ControlReset, Channel: 26}},
		{[]byte{'A', 'C', 'K', 0x00, 0x03, 0x00, 0x09}, ControlLayer{Type: ControlAck, Index: 3, SeqNr: 9}},
		{[]byte{'N', 'A', 'C', 'K', 0xFF, 0xFE, 0x00, 0x01}, ControlLayer{Type: ControlNack, Index: 0xFFFE, SeqNr: 1}},
	}
	for _, test := range tests {
		c := &ControlLayer{}
		err := c.DecodeFromBytes(test.data, gopacket.NilDecodeFeedback)
		require.NoError(t, err)
		require.Equal(t, test.want.Type, c.Type)
		require.Equal(t, test.want.Channel, c.Channel)
		require.Equal(t, test.want.Index, c.Index)
		require.Equal(t, test.want.SeqNr, c.SeqNr)
		require.Equal(t, test.data, c.LayerContents())
	}
}

func TestControlDecodeRejectsWrongLength(t *testing.T) {
	raws := [][]byte{
		[]byte("RST"),
		[]byte{'R', 'S', 'T', 26, 0x00},
		[]byte("ACK"),
		[]byte{'A', 'C', 'K', 0x00, 0x03, 0x00},
		[]byte{'A', 'C', 'K', 0x00, 0x03, 0x00, 0x09, 0x00},
		[]byte("NACK"),
		[]byte("READYx"),
		[]byte("STOPx"),
		[]byte("NOPE"),
		[]byte{},
	}
	for _, raw := range raws {
		c := &ControlLayer{}
		require.Error(t, c.DecodeFromBytes(raw, gopacket.NilDecodeFeedback))
	}
}

func TestControlRoundTrip(t *testing.T) {
	controls := []*ControlLayer{
		NewReset(15),
		NewAck(0xABCD, 0x1234),
		NewNack(0, 0xFFFF),
		NewStop(),
	}
	for _, control := range controls {
		decoded := &ControlLayer{}
		require.NoError(t, decoded.DecodeFromBytes(serialize(t, control), gopacket.NilDecodeFeedback))
		require.Equal(t, control.Type, decoded.Type)
		require.Equal(t, control.Channel, decoded.Channel)
		require.Equal(t, control.Index, decoded.Index)
		require.Equal(t, control.SeqNr, decoded.SeqNr)
	}
}

func TestControlDecodeViaNewPacket(t *testing.T) {
	packet := gopacket.NewPacket([]byte{'A', 'C', 'K', 0x00, 0x03, 0x00, 0x09}, ControlLayerType, gopacket.Default)
	layer := packet.Layer(ControlLayerType)
	require.NotNil(t, layer)
	control := layer.(*ControlLayer)
	require.Equal(t, ControlAck, control.Type)
	require.Equal(t, uint16(3), control.Index)
	require.Equal(t, uint16(9), control.SeqNr)
}

func TestIsReady(t *testing.T) {
	require.True(t, IsReady([]byte("READY")))
	require.False(t, IsReady([]byte("READYREADY")))
	require.False(t, IsReady([]byte("READ")))
	require.False(t, IsReady([]byte{0x00, 0x01, 0x00, 0x01, 'R', 'E', 'A', 'D', 'Y'}))
	require.False(t, IsReady(nil))
}

func TestValidateChannel(t *testing.T) {
	for channel := MinChannel; channel <= MaxChannel; channel++ {
		require.NoError(t, ValidateChannel(channel))
	}
	for _, channel := range []int{-1, 0, 10, 27, 255} {
		err := ValidateChannel(channel)
		require.Error(t, err)
		require.IsType(t, ErrChannelOutOfRange{}, err)
	}
}

func TestPacketDecode(t *testing.T) {
	data := []byte{0x00, 0x07, 0x00, 0x05, 0xAA, 0xBB, 0x83}
	pl := &PacketLayer{}
	require.NoError(t, pl.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	require.Equal(t, uint16(7), pl.Index)
	require.Equal(t, uint16(5), pl.SeqNr)
	require.Equal(t, []byte{0xAA, 0xBB, 0x83}, pl.LayerPayload())
	require.True(t, pl.FCSValid())
	require.Equal(t, uint8(3), pl.LQI())
}

func TestPacketDecodeInvalidFCS(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x01, 0xAA, 0x7F}
	pl := &PacketLayer{}
	require.NoError(t, pl.DecodeFromBytes(data, gopacket.NilDecodeFeedback))
	require.False(t, pl.FCSValid())
	require.Equal(t, uint8(0x7F), pl.LQI())
}

func TestPacketDecodeTooShort(t *testing.T) {
	for _, raw := range [][]byte{nil, {0x00}, {0x00, 0x01, 0x00, 0x01}} {
		pl := &PacketLayer{}
		require.Error(t, pl.DecodeFromBytes(raw, gopacket.NilDecodeFeedback))
	}
}

func TestPacketSerialize(t *testing.T) {
	pl := &PacketLayer{Index: 7, SeqNr: 5}
	payload := gopacket.Payload{0xAA, 0xBB, 0x83}
	require.Equal(t, []byte{0x00, 0x07, 0x00, 0x05, 0xAA, 0xBB, 0x83}, serialize(t, pl, payload))
}

func TestPacketDecodeViaNewPacket(t *testing.T) {
	packet := gopacket.NewPacket([]byte{0x00, 0x07, 0x00, 0x05, 0xAA, 0xBB, 0x83}, PacketLayerType, gopacket.Default)
	layer := packet.Layer(PacketLayerType)
	require.NotNil(t, layer)
	pl := layer.(*PacketLayer)
	require.Equal(t, uint16(7), pl.Index)
	require.Equal(t, uint16(5), pl.SeqNr)
	require.Equal(t, []byte{0xAA, 0xBB, 0x83}, pl.LayerPayload())
}
