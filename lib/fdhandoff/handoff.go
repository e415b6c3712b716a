// Copyright 2026 The LSPosed Authors
// SPDX-License-Identifier: Apache-2.0

package fdhandoff

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"

	"github.com/bocchi810/LSPosed/lib/logging"
	"github.com/bocchi810/LSPosed/lib/netutil"
	"golang.org/x/sys/unix"
)

// DefaultToken is the abstract socket name the peer listens on.
const DefaultToken = "5291374ceda0aef7c5d86cd2a4f6a3ac"

// DebugMarker appears in argv[0] of the debug dex2oat flavour.
const DebugMarker = "dex2oatd"

// Capability describes the requesting binary flavour.
type Capability struct {
	Is64  bool
	Debug bool
}

// CapabilityFor derives the capability of the running binary from its
// word size and argv[0].
func CapabilityFor(argv0, debugMarker string) Capability {
	return Capability{
		Is64:  strconv.IntSize == 64,
		Debug: debugMarker != "" && strings.Contains(argv0, debugMarker),
	}
}

// Code returns the wire encoding (is64 << 1) | isDebug.
func (c Capability) Code() int32 {
	var code int32
	if c.Is64 {
		code |= 1 << 1
	}
	if c.Debug {
		code |= 1
	}
	return code
}

// Response is what the peer returned.
type Response struct {
	// FD is the borrowed descriptor, or -1 when none arrived intact.
	// The caller owns it.
	FD int

	// Echo is the payload that carried the descriptor.
	Echo int32

	// Ack is the trailing acknowledgement, or -1 when unreadable.
	Ack int32
}

// Client performs the handoff.
type Client struct {
	// Token is the abstract socket name. Empty means DefaultToken.
	Token string

	// Logger receives diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Address returns the abstract socket address in net package form.
func (c *Client) Address() string {
	return "@" + c.token()
}

func (c *Client) token() string {
	if c.Token == "" {
		return DefaultToken
	}
	return c.Token
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return logging.Discard()
	}
	return c.Logger
}

// Request sends capability and collects the response. It blocks until
// the peer answers or ctx is done; with context.Background there is no
// timeout. The only error is a failed connection or request write;
// descriptor and acknowledgement problems surface in the Response.
func (c *Client) Request(ctx context.Context, capability Capability) (Response, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", c.Address())
	if err != nil {
		return Response{FD: -1, Ack: -1}, fmt.Errorf("connecting to %s: %w", c.token(), err)
	}
	defer conn.Close()

	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return Response{FD: -1, Ack: -1}, fmt.Errorf("connecting to %s: unexpected connection type %T", c.token(), conn)
	}
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() { unixConn.Close() })
		defer stop()
	}

	if err := writeInt32(unixConn, capability.Code()); err != nil {
		return Response{FD: -1, Ack: -1}, fmt.Errorf("sending capability to %s: %w", c.token(), err)
	}

	response := Response{FD: -1, Ack: -1}
	response.FD, response.Echo, err = receiveDescriptor(unixConn)
	if err != nil {
		c.logger().Warn("descriptor handoff failed", "socket", c.token(), "error", err)
	}

	ack, err := readInt32(unixConn)
	switch {
	case netutil.IsPeerClosed(err):
		c.logger().Info("peer closed before acknowledging", "socket", c.token())
	case err != nil:
		c.logger().Warn("reading handoff acknowledgement", "socket", c.token(), "error", err)
	default:
		response.Ack = ack
	}
	return response, nil
}

// receiveDescriptor reads one message carrying a 4-byte payload and a
// single SCM_RIGHTS descriptor. It returns fd -1 with a descriptive
// error when the control data has any other shape; descriptors that did
// arrive in a malformed message are closed.
func receiveDescriptor(conn *net.UnixConn) (int, int32, error) {
	payload := make([]byte, 4)
	oob := make([]byte, unix.CmsgSpace(4))

	n, oobn, flags, _, err := conn.ReadMsgUnix(payload, oob)
	if err != nil {
		return -1, 0, fmt.Errorf("recvmsg: %w", err)
	}
	var echo int32
	if n == len(payload) {
		echo = int32(binary.NativeEndian.Uint32(payload))
	}

	fd, err := parseRights(oob, oobn, flags)
	return fd, echo, err
}

// parseRights extracts the single descriptor from the control data of
// one recvmsg. oob is the whole control buffer, sized for exactly one
// SCM_RIGHTS message with one descriptor, and oobn and flags are what
// recvmsg returned. Descriptors carried in rejected control data are
// closed.
func parseRights(oob []byte, oobn, flags int) (int, error) {
	if flags&unix.MSG_CTRUNC != 0 {
		closeRights(oob[:oobn])
		return -1, fmt.Errorf("control data truncated")
	}
	if oobn != len(oob) {
		closeRights(oob[:oobn])
		return -1, fmt.Errorf("control length %d, want %d", oobn, len(oob))
	}

	messages, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return -1, fmt.Errorf("parsing control message: %w", err)
	}
	if len(messages) != 1 {
		closeRights(oob[:oobn])
		return -1, fmt.Errorf("got %d control messages, want 1", len(messages))
	}
	header := messages[0].Header
	if int(header.Len) != unix.CmsgLen(4) || header.Level != unix.SOL_SOCKET || header.Type != unix.SCM_RIGHTS {
		closeRights(oob[:oobn])
		return -1, fmt.Errorf("unexpected control header len=%d level=%d type=%d", header.Len, header.Level, header.Type)
	}

	fds, err := unix.ParseUnixRights(&messages[0])
	if err != nil {
		return -1, fmt.Errorf("parsing rights: %w", err)
	}
	if len(fds) != 1 {
		closeAll(fds)
		return -1, fmt.Errorf("got %d descriptors, want 1", len(fds))
	}
	return fds[0], nil
}

// closeRights closes any descriptors carried in malformed control data
// so a rejected handoff does not leak them.
func closeRights(oob []byte) {
	messages, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return
	}
	for index := range messages {
		if messages[index].Header.Level != unix.SOL_SOCKET || messages[index].Header.Type != unix.SCM_RIGHTS {
			continue
		}
		fds, err := unix.ParseUnixRights(&messages[index])
		if err == nil {
			closeAll(fds)
		}
	}
}

func closeAll(fds []int) {
	for _, fd := range fds {
		unix.Close(fd)
	}
}

func writeInt32(w io.Writer, value int32) error {
	var buffer [4]byte
	binary.NativeEndian.PutUint32(buffer[:], uint32(value))
	_, err := w.Write(buffer[:])
	return err
}

func readInt32(r io.Reader) (int32, error) {
	var buffer [4]byte
	if _, err := io.ReadFull(r, buffer[:]); err != nil {
		return -1, err
	}
	return int32(binary.NativeEndian.Uint32(buffer[:])), nil
}
