package tinyserve

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	stdhttp "net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/tinyserve/config"
	"github.com/indigo-web/tinyserve/filestore"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

const ioTimeout = 5 * time.Second

func getConfig() *config.Config {
	cfg := config.Default()
	cfg.NET.AcceptLoopInterruptPeriod = config.Duration(20 * time.Millisecond)

	return cfg
}

// runApp starts the server on a random port, stopping it once the test is done.
func runApp(t *testing.T, cfg *config.Config, root string) string {
	app := New(cfg, filestore.New(root))
	require.NoError(t, app.Bind("127.0.0.1:0"))

	errch := make(chan error, 1)
	go func() {
		errch <- app.Serve()
	}()

	t.Cleanup(func() {
		app.Stop()

		select {
		case err := <-errch:
			require.NoError(t, err)
		case <-time.After(ioTimeout):
			require.Fail(t, "server did not stop on time")
		}
	})

	return app.Addr().String()
}

type rawConn struct {
	net.Conn
	r *bufio.Reader
}

func dial(t *testing.T, addr string) *rawConn {
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, conn.SetDeadline(time.Now().Add(ioTimeout)))
	t.Cleanup(func() {
		_ = conn.Close()
	})

	return &rawConn{Conn: conn, r: bufio.NewReader(conn)}
}

func (c *rawConn) send(t *testing.T, request string) {
	_, err := c.Write([]byte(request))
	require.NoError(t, err)
}

// receive reads a single response. Responses without Content-Length are considered
// to have no body.
func (c *rawConn) receive(t *testing.T) (*stdhttp.Response, []byte) {
	resp, err := stdhttp.ReadResponse(c.r, nil)
	require.NoError(t, err)

	var body []byte
	if resp.ContentLength > 0 {
		body = make([]byte, resp.ContentLength)
		_, err = io.ReadFull(c.r, body)
		require.NoError(t, err)
	}

	return resp, body
}

func (c *rawConn) roundTrip(t *testing.T, request string) (*stdhttp.Response, []byte) {
	c.send(t, request)
	return c.receive(t)
}

// closed reports whether the server closed the connection, either gracefully or by reset.
func (c *rawConn) closed() bool {
	_, err := c.r.ReadByte()
	return err != nil && !errors.Is(err, os.ErrDeadlineExceeded)
}

func gunzip(t *testing.T, data []byte) string {
	r, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	text, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(text)
}

func TestServer(t *testing.T) {
	root := t.TempDir()
	addr := runApp(t, getConfig(), root)

	t.Run("root", func(t *testing.T) {
		conn := dial(t, addr)
		resp, body := conn.roundTrip(t, "GET / HTTP/1.1\r\nHost: localhost:4221\r\n\r\n")
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Empty(t, body)
		require.Empty(t, resp.Header.Values("Content-Type"))
		require.Empty(t, resp.Header.Values("Content-Length"))
	})

	t.Run("echo", func(t *testing.T) {
		conn := dial(t, addr)
		for _, s := range []string{"abc", "Hello", uniuri.NewLen(64), "a/b/c"} {
			resp, body := conn.roundTrip(t, "GET /echo/"+s+" HTTP/1.1\r\n\r\n")
			require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
			require.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
			require.Equal(t, strconv.Itoa(len(s)), resp.Header.Get("Content-Length"))
			require.Equal(t, s, string(body))
		}
	})

	t.Run("user agent", func(t *testing.T) {
		conn := dial(t, addr)
		resp, body := conn.roundTrip(t, "GET /user-agent HTTP/1.1\r\nUser-Agent: foobar/1.2.3\r\n\r\n")
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "foobar/1.2.3", string(body))
	})

	t.Run("gzip negotiation", func(t *testing.T) {
		conn := dial(t, addr)
		resp, body := conn.roundTrip(t, "GET /echo/hello HTTP/1.1\r\nAccept-Encoding: deflate, gzip\r\n\r\n")
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
		require.Equal(t, strconv.Itoa(len(body)), resp.Header.Get("Content-Length"))
		require.Equal(t, "hello", gunzip(t, body))

		resp, body = conn.roundTrip(t, "GET /echo/hello HTTP/1.1\r\n\r\n")
		require.Empty(t, resp.Header.Get("Content-Encoding"))
		require.Equal(t, "hello", string(body))

		resp, body = conn.roundTrip(t, "GET /echo/hello HTTP/1.1\r\nAccept-Encoding: br\r\n\r\n")
		require.Empty(t, resp.Header.Get("Content-Encoding"))
		require.Equal(t, "hello", string(body))
	})

	t.Run("files round trip", func(t *testing.T) {
		conn := dial(t, addr)
		name := uniuri.New()
		content := "binary\x00\r\n\r\ncontent"
		resp, _ := conn.roundTrip(t,
			"POST /files/"+name+" HTTP/1.1\r\nContent-Length: "+strconv.Itoa(len(content))+"\r\n\r\n"+content,
		)
		require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)

		resp, body := conn.roundTrip(t, "GET /files/"+name+" HTTP/1.1\r\n\r\n")
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
		require.Equal(t, content, string(body))

		onDisk, err := os.ReadFile(filepath.Join(root, name))
		require.NoError(t, err)
		require.Equal(t, content, string(onDisk))
	})

	t.Run("files idempotence", func(t *testing.T) {
		conn := dial(t, addr)
		request := "POST /files/same HTTP/1.1\r\nContent-Length: 4\r\n\r\ndata"
		for range 2 {
			resp, body := conn.roundTrip(t, request)
			require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
			require.Empty(t, body)
		}

		onDisk, err := os.ReadFile(filepath.Join(root, "same"))
		require.NoError(t, err)
		require.Equal(t, "data", string(onDisk))
	})

	t.Run("missing file", func(t *testing.T) {
		conn := dial(t, addr)
		resp, body := conn.roundTrip(t, "GET /files/"+uniuri.New()+" HTTP/1.1\r\n\r\n")
		require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
		require.Empty(t, body)
	})

	t.Run("path traversal", func(t *testing.T) {
		conn := dial(t, addr)
		resp, _ := conn.roundTrip(t, "GET /files/../../../../etc/hostname HTTP/1.1\r\n\r\n")
		require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown method", func(t *testing.T) {
		conn := dial(t, addr)
		for _, path := range []string{"/", "/echo/abc", "/nope"} {
			resp, body := conn.roundTrip(t, "DELETE "+path+" HTTP/1.1\r\n\r\n")
			require.Equal(t, stdhttp.StatusMethodNotAllowed, resp.StatusCode)
			require.Empty(t, body)
		}
	})

	t.Run("unknown path", func(t *testing.T) {
		conn := dial(t, addr)
		resp, body := conn.roundTrip(t, "GET /nope HTTP/1.1\r\n\r\n")
		require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
		require.Empty(t, body)
	})

	t.Run("malformed request line", func(t *testing.T) {
		conn := dial(t, addr)
		resp, body := conn.roundTrip(t, "NONSENSE\r\n\r\n")
		require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
		require.Empty(t, body)
	})

	t.Run("keep-alive", func(t *testing.T) {
		conn := dial(t, addr)
		resp, body := conn.roundTrip(t, "GET /echo/first HTTP/1.1\r\n\r\n")
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "first", string(body))

		resp, body = conn.roundTrip(t, "GET /echo/second HTTP/1.1\r\nConnection: keep-alive\r\n\r\n")
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "keep-alive", resp.Header.Get("Connection"))
		require.Equal(t, "second", string(body))
	})

	t.Run("connection close", func(t *testing.T) {
		conn := dial(t, addr)
		conn.send(t, "GET /echo/bye HTTP/1.1\r\nConnection: close\r\n\r\nGET /echo/never HTTP/1.1\r\n\r\n")
		resp, body := conn.receive(t)
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "close", resp.Header.Get("Connection"))
		require.Equal(t, "bye", string(body))
		require.True(t, conn.closed())
	})

	t.Run("pipelining", func(t *testing.T) {
		conn := dial(t, addr)
		conn.send(t,
			"POST /files/pipelined HTTP/1.1\r\nContent-Length: 3\r\n\r\nabc"+
				"GET /files/pipelined HTTP/1.1\r\n\r\n"+
				"GET /echo/last HTTP/1.1\r\n\r\n",
		)

		resp, _ := conn.receive(t)
		require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)
		resp, body := conn.receive(t)
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "abc", string(body))
		_, body = conn.receive(t)
		require.Equal(t, "last", string(body))
	})

	t.Run("fatal error closes the connection", func(t *testing.T) {
		conn := dial(t, addr)
		conn.send(t, "POST /files/x HTTP/1.1\r\nContent-Length: nope\r\n\r\n")
		require.True(t, conn.closed())

		// the listener must survive it
		resp, _ := dial(t, addr).roundTrip(t, "GET / HTTP/1.1\r\n\r\n")
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
	})

	t.Run("concurrent connections", func(t *testing.T) {
		const clients = 16
		var wg sync.WaitGroup
		errs := make(chan error, clients)

		for i := range clients {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- echoOnce(addr, "client"+strconv.Itoa(i))
			}(i)
		}

		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
	})

	t.Run("net/http client", func(t *testing.T) {
		client := &stdhttp.Client{Timeout: ioTimeout}
		defer client.CloseIdleConnections()

		request, err := stdhttp.NewRequest(
			stdhttp.MethodPost, "http://"+addr+"/files/stdlib", strings.NewReader("from net/http"),
		)
		require.NoError(t, err)
		// 201 carries no Content-Length, so the body is delimited by the connection close
		request.Close = true
		resp, err := client.Do(request)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, stdhttp.StatusCreated, resp.StatusCode)

		// net/http decompresses gzip transparently, as it asks for it by itself
		resp, err = client.Get("http://" + addr + "/files/stdlib")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "from net/http", string(body))
	})
}

func echoOnce(addr, text string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err = conn.SetDeadline(time.Now().Add(ioTimeout)); err != nil {
		return err
	}

	if _, err = conn.Write([]byte("GET /echo/" + text + " HTTP/1.1\r\nConnection: close\r\n\r\n")); err != nil {
		return err
	}

	response, err := io.ReadAll(conn)
	if err != nil {
		return err
	}

	if !bytes.HasSuffix(response, []byte("\r\n\r\n"+text)) {
		return errors.New("unexpected response: " + string(response))
	}

	return nil
}

func TestApp(t *testing.T) {
	t.Run("stop without connections", func(t *testing.T) {
		app := New(getConfig(), nil)
		require.NoError(t, app.Bind("127.0.0.1:0"))
		require.NotNil(t, app.Addr())

		errch := make(chan error, 1)
		go func() {
			errch <- app.Serve()
		}()

		app.Stop()
		select {
		case err := <-errch:
			require.NoError(t, err)
		case <-time.After(ioTimeout):
			require.Fail(t, "server did not stop on time")
		}
	})

	t.Run("stop interrupts idle keep-alive connections", func(t *testing.T) {
		app := New(getConfig(), filestore.New(t.TempDir()))
		require.NoError(t, app.Bind("127.0.0.1:0"))

		errch := make(chan error, 1)
		go func() {
			errch <- app.Serve()
		}()

		conn := dial(t, app.Addr().String())
		resp, _ := conn.roundTrip(t, "GET / HTTP/1.1\r\n\r\n")
		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)

		app.Stop()
		select {
		case err := <-errch:
			require.NoError(t, err)
		case <-time.After(ioTimeout):
			require.Fail(t, "server did not stop on time")
		}

		require.True(t, conn.closed())
	})

	t.Run("bind error", func(t *testing.T) {
		first := New(getConfig(), nil)
		require.NoError(t, first.Bind("127.0.0.1:0"))
		t.Cleanup(first.Stop)

		second := New(getConfig(), nil)
		require.Error(t, second.Bind(first.Addr().String()))
		require.Nil(t, second.Addr())
	})

	t.Run("read timeout", func(t *testing.T) {
		cfg := getConfig()
		cfg.NET.ReadTimeout = config.Duration(50 * time.Millisecond)
		conn := dial(t, runApp(t, cfg, t.TempDir()))
		require.True(t, conn.closed())
	})
}
