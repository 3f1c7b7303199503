// The linechat client is a pure relay: stdin lines go to the socket and
// socket bytes go to stdout. All protocol logic lives in the server.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
)

func main() {
	addr := flag.String("addr", "localhost:5000", "server address")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(os.Stdout, conn)
		close(done)
	}()

	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			if _, err := fmt.Fprintf(conn, "%s\n", sc.Text()); err != nil {
				return
			}
		}
		_ = conn.Close()
	}()

	<-done
	fmt.Println("Disconnected from server")
}
