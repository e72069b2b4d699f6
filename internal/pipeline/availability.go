package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/termscout/termscout/internal/metrics"
	"github.com/termscout/termscout/internal/progress"
	"github.com/termscout/termscout/internal/queue"
)

// availabilityChecker decides whether <word>.com is registered. A DNS
// answer is proof of registration and skips the WHOIS call entirely; the
// WHOIS provider settles the rest. Provider failure leaves the verdict
// unknown, which is never cached, so the word is retried on a later pass.
type availabilityChecker struct {
	env       stageEnv
	resolver  HostResolver
	whois     WhoisProvider
	in        *queue.Queue[Word]
	ratingOut *queue.Queue[Word]
	counters  *StageCounters
}

func (a *availabilityChecker) run(ctx context.Context, pause time.Duration) error {
	return runStage(ctx, a.in, pause, a.process)
}

func (a *availabilityChecker) process(ctx context.Context, item Word) {
	word := string(item)
	domain := word + ".com"
	start := time.Now()

	verdict, hit, err := a.env.store.Whois(ctx, word)
	if err != nil {
		a.env.logger.Error("whois cache read failed", zap.String("word", word), zap.Error(err))
		a.counters.Failures.Add(1)
		a.env.emit(progress.StageAvailability, word, progress.OutcomeFailed, start, err.Error())
		return
	}

	if hit {
		metrics.ObserveCacheHit("availability")
		a.counters.CacheHits.Add(1)
		a.env.emit(progress.StageAvailability, word, progress.OutcomeCacheHit, start, verdict.String())
	} else {
		verdict = a.check(ctx, word, domain)
		if verdict == AvailabilityUnknown {
			a.counters.Failures.Add(1)
			a.env.emit(progress.StageAvailability, word, progress.OutcomeFailed, start, "verdict unknown")
			return
		}
		if err := a.env.store.PutWhois(ctx, word, verdict); err != nil {
			a.env.logger.Error("whois cache write failed", zap.String("word", word), zap.Error(err))
			a.counters.Failures.Add(1)
			a.env.emit(progress.StageAvailability, word, progress.OutcomeFailed, start, err.Error())
			return
		}
		a.counters.Processed.Add(1)
		a.env.emit(progress.StageAvailability, word, progress.OutcomeProcessed, start, verdict.String())
	}

	if verdict == AvailabilityAvailable {
		a.ratingOut.Enqueue(item)
	}
}

func (a *availabilityChecker) check(ctx context.Context, word, domain string) Availability {
	dnsCtx, cancel := a.env.callContext(ctx)
	resolves := a.resolver.Resolves(dnsCtx, domain)
	cancel()
	if resolves {
		a.env.logger.Debug("domain resolves, skipping whois", zap.String("domain", domain))
		return AvailabilityTaken
	}

	whoisCtx, cancel := a.env.callContext(ctx)
	registered, err := a.whois.Registered(whoisCtx, domain)
	cancel()
	metrics.ObserveExternalCall("availability", err)
	if err != nil {
		a.env.logger.Warn("whois lookup failed", zap.String("domain", domain), zap.Error(err))
		return AvailabilityUnknown
	}
	if registered {
		return AvailabilityTaken
	}
	return AvailabilityAvailable
}
