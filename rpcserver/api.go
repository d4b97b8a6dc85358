package rpcserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gin-gonic/gin"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/config"
	"github.com/sat20-labs/l2asset/docs"
	"github.com/sat20-labs/l2asset/rpcserver/wire"
)

const (
	API_KEY_HEADER       = "x-api-key"
	AUTHORIZATION_HEADER = "Authorization"
)

type RateLimit struct {
	limit    *limiter.Limiter
	mutex    sync.Mutex
	day      string
	reqCount int
}

// countToday 按 UTC 自然日计数, 跨天清零
func (p *RateLimit) countToday(now time.Time) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	day := now.UTC().Format("2006-01-02")
	if day != p.day {
		p.day = day
		p.reqCount = 0
	}
	p.reqCount++
	return p.reqCount
}

//	@contact.name	API Support

// @securityDefinitions.apikey	ApiKey
// @in							header
// @name						x-api-key
func InitApiDoc(swaggerHost, schemes, basePath string) {
	docs.SwaggerInfo.Title = "l2 asset api"
	docs.SwaggerInfo.Version = common.L2ASSET_SERVICE_VERSION
	docs.SwaggerInfo.Schemes = nil
	for _, scheme := range strings.Split(schemes, ",") {
		if scheme == "http" || scheme == "https" {
			docs.SwaggerInfo.Schemes = append(docs.SwaggerInfo.Schemes, scheme)
		}
	}
	if len(docs.SwaggerInfo.Schemes) == 0 {
		docs.SwaggerInfo.Schemes = []string{"http"}
	}
	docs.SwaggerInfo.Description = "l2 asset api docs for developer"
	docs.SwaggerInfo.Host = swaggerHost
	docs.SwaggerInfo.BasePath = basePath
}

// SetApiConf replaces the api key list and limits.
func (s *Rpc) SetApiConf(api *config.API) {
	s.apiConfMutex.Lock()
	defer s.apiConfMutex.Unlock()
	if api == nil {
		api = &config.API{}
	}
	s.api = api
	s.apiLimitMap = &sync.Map{}
}

func requestApiKey(c *gin.Context) string {
	if key := c.GetHeader(API_KEY_HEADER); key != "" {
		return key
	}
	return strings.TrimPrefix(c.GetHeader(AUTHORIZATION_HEADER), "Bearer ")
}

func rateLimitOf(limits *sync.Map, key string, apiKey *config.APIKey) *RateLimit {
	v, ok := limits.Load(key)
	if ok {
		return v.(*RateLimit)
	}
	lmt := tollbooth.NewLimiter(float64(apiKey.RateLimit.PerSecond), &limiter.ExpirableOptions{DefaultExpirationTTL: time.Hour})
	if apiKey.RateLimit.Max > 0 {
		lmt.SetMax(float64(apiKey.RateLimit.Max))
	}
	if apiKey.RateLimit.Burst > 0 {
		lmt.SetBurst(apiKey.RateLimit.Burst)
	}
	lmt.SetTokenBucketExpirationTTL(time.Minute)
	v, _ = limits.LoadOrStore(key, &RateLimit{limit: lmt})
	return v.(*RateLimit)
}

func abortWith(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, &wire.ErrorResp{
		BaseResp: wire.BaseResp{Code: -1, Msg: msg},
		Error:    code,
	})
}

// ApiKeyRequired checks the api key of a request and applies its rate
// limits. Paths in nolimit_api_list and hosts in nolimit_host_list skip the
// limits but still need a valid key.
func (s *Rpc) ApiKeyRequired(basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.apiConfMutex.RLock()
		api, limits := s.api, s.apiLimitMap
		s.apiConfMutex.RUnlock()

		key := requestApiKey(c)
		if key == "" {
			abortWith(c, http.StatusUnauthorized, "missing_api_key", "No api key found")
			return
		}
		apiKey := api.APIKeyList[key]
		if apiKey == nil {
			abortWith(c, http.StatusUnauthorized, "invalid_api_key", "Invalid API Key")
			return
		}
		c.Set("user", apiKey.UserName)

		if apiKey.RateLimit == nil || apiKey.RateLimit.PerSecond == 0 || apiKey.RateLimit.PerDay == 0 {
			c.Next()
			return
		}
		for _, apiUrl := range api.NoLimitApiList {
			if basePath+apiUrl == c.Request.URL.Path {
				c.Next()
				return
			}
		}
		clientIp := c.ClientIP()
		for _, host := range api.NoLimitHostList {
			if clientIp == host {
				c.Next()
				return
			}
		}

		rateLimit := rateLimitOf(limits, key, apiKey)
		if rateLimit.countToday(time.Now()) > apiKey.RateLimit.PerDay {
			abortWith(c, http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded")
			return
		}
		if httpError := tollbooth.LimitByKeys(rateLimit.limit, []string{key}); httpError != nil {
			common.Log.Debugf("user %s rate limited, %s", apiKey.UserName, httpError.Message)
			abortWith(c, http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded")
			return
		}
		c.Next()
	}
}
