// Copyright 2024 The Monad Authors
// This file is part of the monad library.

package event

import "sync"

// JoinSubscriptions joins multiple subscriptions into one subscription. The
// joined subscription reports an error if any of its children report a
// genuine error (not a clean Unsubscribe), and unsubscribes all children the
// instant any of them fails or the joined subscription itself is
// unsubscribed.
func JoinSubscriptions(subs ...Subscription) Subscription {
	s := &multiSub{subs: subs, quit: make(chan struct{}), err: make(chan error)}
	if len(subs) == 0 {
		close(s.err)
		return s
	}

	agg := make(chan error, len(subs))
	for _, sub := range subs {
		sub := sub
		go func() {
			select {
			case err, ok := <-sub.Err():
				if ok {
					select {
					case agg <- err:
					case <-s.quit:
					}
				}
			case <-s.quit:
			}
		}()
	}
	go func() {
		select {
		case err := <-agg:
			s.unsubscribeAll()
			s.err <- err
			close(s.err)
		case <-s.quit:
			close(s.err)
		}
	}()
	return s
}

type multiSub struct {
	unsubOnce sync.Once
	subs      []Subscription
	quit      chan struct{}
	err       chan error
}

func (s *multiSub) unsubscribeAll() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
}

func (s *multiSub) Unsubscribe() {
	s.unsubOnce.Do(func() {
		s.unsubscribeAll()
		close(s.quit)
	})
}

func (s *multiSub) Err() <-chan error {
	return s.err
}
