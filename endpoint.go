package wireline

import "sync"

// Endpoint is one configured broker address, carrying monotonic
// diagnostic counters per spec.md §3. Identity is the address.
type Endpoint struct {
	Address  string
	User     string
	Password string

	lock         sync.Mutex
	successCount uint64
	failureCount uint64
}

// NewEndpoint constructs an Endpoint for the given address and optional
// credentials.
func NewEndpoint(address, user, password string) *Endpoint {
	return &Endpoint{Address: address, User: user, Password: password}
}

// RecordSuccess increments the endpoint's success counter.
func (endpoint *Endpoint) RecordSuccess() {
	endpoint.lock.Lock()
	endpoint.successCount++
	endpoint.lock.Unlock()
}

// RecordFailure increments the endpoint's failure counter.
func (endpoint *Endpoint) RecordFailure() {
	endpoint.lock.Lock()
	endpoint.failureCount++
	endpoint.lock.Unlock()
}

// SuccessCount returns the current success count.
func (endpoint *Endpoint) SuccessCount() uint64 {
	endpoint.lock.Lock()
	defer endpoint.lock.Unlock()
	return endpoint.successCount
}

// FailureCount returns the current failure count.
func (endpoint *Endpoint) FailureCount() uint64 {
	endpoint.lock.Lock()
	defer endpoint.lock.Unlock()
	return endpoint.failureCount
}

// ServerList is an ordered, round-robin rotation of broker Endpoints.
// Grounded on the teacher's DefaultServerChooser: a slice plus a cursor,
// no health-based reordering (reconnect-and-backoff handles that
// elsewhere, per spec.md §4.1).
type ServerList struct {
	lock      sync.Mutex
	endpoints []*Endpoint
	cursor    int
	current   *Endpoint
}

// NewServerList builds a ServerList from one or more endpoints. An empty
// list is a construction-time error per spec.md §4.1.
func NewServerList(endpoints ...*Endpoint) (*ServerList, error) {
	if len(endpoints) == 0 {
		return nil, NewError(ErrInvalidHosts, "at least one host is required")
	}
	return &ServerList{endpoints: append([]*Endpoint(nil), endpoints...)}, nil
}

// AddEndpoints appends endpoints to the rotation.
func (list *ServerList) AddEndpoints(endpoints ...*Endpoint) {
	list.lock.Lock()
	list.endpoints = append(list.endpoints, endpoints...)
	list.lock.Unlock()
}

// NextServer returns the next endpoint in round-robin order, wrapping at
// the end. Calling it on an empty list is a programmer error.
func (list *ServerList) NextServer() *Endpoint {
	list.lock.Lock()
	defer list.lock.Unlock()
	if len(list.endpoints) == 0 {
		panic("wireline: NextServer called on an empty ServerList")
	}
	endpoint := list.endpoints[list.cursor]
	list.cursor = (list.cursor + 1) % len(list.endpoints)
	list.current = endpoint
	return endpoint
}

// CurrentServer returns the last endpoint handed out by NextServer.
func (list *ServerList) CurrentServer() *Endpoint {
	list.lock.Lock()
	defer list.lock.Unlock()
	return list.current
}

// Len reports the number of configured endpoints.
func (list *ServerList) Len() int {
	list.lock.Lock()
	defer list.lock.Unlock()
	return len(list.endpoints)
}
