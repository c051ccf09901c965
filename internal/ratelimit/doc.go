// Package ratelimit provides per-caller sliding-window rate limiting.
//
// Each caller is allowed at most max_requests commands inside the trailing
// window (defaults: 10 per 60 seconds). Denied requests are not recorded,
// so hammering the bot while throttled does not push the lockout further
// out. Per-caller state is independently locked; callers never contend
// with each other.
//
//	limiter := ratelimit.New(10, time.Minute)
//	if !limiter.Allow(callerID) {
//	    // throttle reply
//	}
package ratelimit
