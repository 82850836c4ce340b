// Package rtpdvdlpcm contains a RTP decoder and encoder for framed DVD LPCM packets.
package rtpdvdlpcm
