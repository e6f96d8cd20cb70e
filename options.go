package wireline

import "time"

// ClientOptions collects every knob ClientFacade's constructor accepts.
// Built with functional options (WithXxx), grounded on arloliu-parti's
// functional-options config builder (config.go/options.go).
type ClientOptions struct {
	Hosts []string

	AutomaticReconnect bool
	ReconnectWaitTime  time.Duration
	ReconnectStrategy  ReconnectStrategy

	ConnectTimeout time.Duration
	Pedantic       bool
	MaxFrameSize   int

	MinSupportedVersion string

	CallbackExecutor CallbackExecutor
	Listeners        []Listener
	Logger           Logger
	Metrics          MetricsCollector

	QueueCapacity int

	// transportFactory overrides how the engine builds a Transport for an
	// address; nil selects by scheme (newTransportForAddress). Set through
	// WithEventLoopGroup; the module's own tests also set it directly to
	// swap in a net.Pipe-backed transport instead of dialing real TCP.
	transportFactory func(address string) Transport
}

// ClientOption mutates a ClientOptions under construction.
type ClientOption func(*ClientOptions)

// defaultClientOptions returns the spec's defaults (spec.md §4.2, §4.5):
// automatic reconnect on, fixed-delay wait, unbounded outbound queue,
// nop metrics, nop logger.
func defaultClientOptions() *ClientOptions {
	return &ClientOptions{
		AutomaticReconnect: true,
		ReconnectWaitTime:  2 * time.Second,
		ConnectTimeout:     10 * time.Second,
		QueueCapacity:      0,
		Logger:             NewNopLogger(),
		Metrics:            NopMetrics{},
	}
}

// WithHosts sets the endpoint addresses tried in round-robin order.
func WithHosts(hosts ...string) ClientOption {
	return func(opts *ClientOptions) { opts.Hosts = hosts }
}

// WithAutomaticReconnect toggles automatic reconnect on disconnect.
func WithAutomaticReconnect(enabled bool) ClientOption {
	return func(opts *ClientOptions) { opts.AutomaticReconnect = enabled }
}

// WithReconnectWaitTime sets the delay FixedDelayStrategy uses, when no
// explicit ReconnectStrategy is supplied.
func WithReconnectWaitTime(wait time.Duration) ClientOption {
	return func(opts *ClientOptions) { opts.ReconnectWaitTime = wait }
}

// WithReconnectStrategy overrides the default FixedDelayStrategy.
func WithReconnectStrategy(strategy ReconnectStrategy) ClientOption {
	return func(opts *ClientOptions) { opts.ReconnectStrategy = strategy }
}

// WithConnectTimeout bounds a single dial attempt.
func WithConnectTimeout(timeout time.Duration) ClientOption {
	return func(opts *ClientOptions) { opts.ConnectTimeout = timeout }
}

// WithPedantic asks the broker to validate subjects strictly (spec.md §6 CONNECT body).
func WithPedantic(pedantic bool) ClientOption {
	return func(opts *ClientOptions) { opts.Pedantic = pedantic }
}

// WithMaxFrameSize bounds any single line or PUB/MSG body the client will
// accept from the broker. 0 means unbounded.
func WithMaxFrameSize(maxBytes int) ClientOption {
	return func(opts *ClientOptions) { opts.MaxFrameSize = maxBytes }
}

// WithMinSupportedVersion enables the diagnostic INFO-version check.
func WithMinSupportedVersion(version string) ClientOption {
	return func(opts *ClientOptions) { opts.MinSupportedVersion = version }
}

// WithCallbackExecutor overrides the default striped per-subscription executor.
func WithCallbackExecutor(executor CallbackExecutor) ClientOption {
	return func(opts *ClientOptions) { opts.CallbackExecutor = executor }
}

// WithListeners registers connection-state listeners up front.
func WithListeners(listeners ...Listener) ClientOption {
	return func(opts *ClientOptions) { opts.Listeners = listeners }
}

// WithEventLoopGroup supplies the factory the engine calls to build a
// Transport for each endpoint address. nil keeps the default TCP or
// WebSocket selection by address scheme.
func WithEventLoopGroup(factory func(address string) Transport) ClientOption {
	return func(opts *ClientOptions) { opts.transportFactory = factory }
}

// WithLogger overrides the default no-op Logger.
func WithLogger(logger Logger) ClientOption {
	return func(opts *ClientOptions) { opts.Logger = logger }
}

// WithMetrics overrides the default NopMetrics.
func WithMetrics(metrics MetricsCollector) ClientOption {
	return func(opts *ClientOptions) { opts.Metrics = metrics }
}

// WithQueueCapacity bounds the outbound queue. <= 0 means unbounded.
func WithQueueCapacity(capacity int) ClientOption {
	return func(opts *ClientOptions) { opts.QueueCapacity = capacity }
}
