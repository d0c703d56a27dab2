package dispatcher

import (
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/Zack-Nika/Francos-Security/internal/config"
)

// PunishExecutor performs ban and kick REST calls against the Discord API
// through the fasthttp pool.
type PunishExecutor struct {
	httpPool    *HTTPPool
	rateLimiter *RateLimitMonitor
	baseURL     string
	token       string
}

func NewPunishExecutor(httpPool *HTTPPool, rateLimiter *RateLimitMonitor) *PunishExecutor {
	cfg := config.Get()
	return &PunishExecutor{
		httpPool:    httpPool,
		rateLimiter: rateLimiter,
		baseURL:     cfg.Network.APIBaseURL,
		token:       cfg.Bot.Token,
	}
}

// ExecuteBan bans the user from the guild with an audit-log reason.
func (pe *PunishExecutor) ExecuteBan(guildID, userID, reason string) error {
	if !pe.rateLimiter.CanExecute("ban", guildID) {
		return fmt.Errorf("rate limited")
	}

	uri := fmt.Sprintf("%s/guilds/%s/bans/%s", pe.baseURL, guildID, userID)
	return pe.do(fasthttp.MethodPut, uri, reason, "ban", guildID)
}

// ExecuteKick removes the user from the guild with an audit-log reason.
func (pe *PunishExecutor) ExecuteKick(guildID, userID, reason string) error {
	if !pe.rateLimiter.CanExecute("kick", guildID) {
		return fmt.Errorf("rate limited")
	}

	uri := fmt.Sprintf("%s/guilds/%s/members/%s", pe.baseURL, guildID, userID)
	return pe.do(fasthttp.MethodDelete, uri, reason, "kick", guildID)
}

func (pe *PunishExecutor) do(method, uri, reason, route, guildID string) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bot "+pe.token)
	req.Header.Set("X-Audit-Log-Reason", url.PathEscape(reason))
	req.Header.Set("Content-Type", "application/json")

	client := pe.httpPool.GetClient()
	if err := client.DoTimeout(req, resp, 5*time.Second); err != nil {
		return err
	}

	pe.rateLimiter.Observe(resp, route, guildID)

	statusCode := resp.StatusCode()
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return fmt.Errorf("%s failed: %d", route, statusCode)
}
