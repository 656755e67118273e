//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package discovery

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/depminer/usecases/search"
)

// Scheduler hands out the registered search spaces to the workers, each one
// exactly once.
type Scheduler struct {
	logger logrus.FieldLogger

	spaces struct {
		sync.Mutex

		queue    []*search.SearchSpace
		polled   int
		finished int
	}
}

func NewScheduler(logger logrus.FieldLogger) *Scheduler {
	return &Scheduler{logger: logger}
}

func (s *Scheduler) RegisterSearchSpace(space *search.SearchSpace) {
	s.spaces.Lock()
	defer s.spaces.Unlock()

	s.spaces.queue = append(s.spaces.queue, space)

	s.logger.WithField("search_space", space.String()).Debug("search space registered")
}

// Next pops the next search space. It returns false once the queue is
// drained.
func (s *Scheduler) Next() (*search.SearchSpace, bool) {
	s.spaces.Lock()
	defer s.spaces.Unlock()

	if s.spaces.polled >= len(s.spaces.queue) {
		return nil, false
	}

	space := s.spaces.queue[s.spaces.polled]
	s.spaces.queue[s.spaces.polled] = nil
	s.spaces.polled++
	return space, true
}

// Done marks one polled search space as exhausted.
func (s *Scheduler) Done() {
	s.spaces.Lock()
	defer s.spaces.Unlock()

	s.spaces.finished++
}

// Progress returns the number of exhausted and of all registered search
// spaces.
func (s *Scheduler) Progress() (finished, total int) {
	s.spaces.Lock()
	defer s.spaces.Unlock()

	return s.spaces.finished, len(s.spaces.queue)
}
