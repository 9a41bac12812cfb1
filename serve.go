package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/seanzhanng/teaelo/internal/web"
)

func serve() error {
	b, conf, err := newBack()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	signaled := make(chan os.Signal, 1)
	signal.Notify(signaled, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	go b.Run(&wg, done)
	go web.NewServer(b, conf).Serve(&wg, done)

	sig := <-signaled
	log.Printf("received signal %d", sig)
	close(done)
	wg.Wait()

	log.Print("shutdown complete")

	return nil
}
