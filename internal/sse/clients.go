// Package sse provides Server-Sent Events client management for submit notifications.
package sse

import (
	"sync"

	"github.com/debemdeboas/notice-composer/internal/model"
)

// Events sent to subscribed pages.
const (
	EventSettled = "settled"
)

type Client struct {
	Msg      chan string
	NoticeID model.NoticeID
}

func NewClient(id model.NoticeID) *Client {
	return &Client{
		Msg:      make(chan string, 1),
		NoticeID: id,
	}
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast delivers msg to every client of the notice without blocking;
// a client whose buffer is full misses it.
func (s *SSEClients) Broadcast(id model.NoticeID, msg string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	delivered := 0
	for client := range s.clients {
		if client.NoticeID != id {
			continue
		}
		select {
		case client.Msg <- msg:
			delivered++
		default:
		}
	}
	return delivered
}
