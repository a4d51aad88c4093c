/*
Package resilience provides a consecutive-failure circuit breaker.

# Overview

The transport client keeps one breaker per host:port in a Group. When
connecting to an endpoint fails FailureThreshold times in a row the
breaker opens and further dials fail fast with ErrCircuitOpen until the
cooldown elapses. The next dial is then a single half-open trial: success
closes the breaker, failure re-opens it.

The breaker never retries anything itself.

# Usage

	guards := resilience.NewGroup(resilience.Settings{
		FailureThreshold: 3,
		Cooldown:         30 * time.Second,
	})

	err := guards.Get("example.org:443").Do(func() error {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
		return err
	})

# States

	Closed --[threshold failures]-> Open --[cooldown]-> Half-Open --[success]-> Closed
	                                                        |
	                                                    [failure]
	                                                        v
	                                                       Open
*/
package resilience
