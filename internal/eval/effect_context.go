package eval

import "github.com/alexisbeaulieu97/formengine/internal/ast"

// EffectContext is the API surface handed to a registered Effect
// function. It is the only sanctioned way to mutate answers/data;
// handlers themselves never write through Context directly.
type EffectContext interface {
	GetAnswer(code string) (any, bool)
	SetAnswer(code string, value any)
	HasAnswer(code string) bool
	ClearAnswer(code string)
	GetAllAnswers() map[string]any
	GetAnswerHistory(code string) (AnswerHistory, bool)
	GetAllAnswerHistories() map[string]AnswerHistory

	GetData(key string) (any, bool)
	SetData(key string, value any)
	GetAllData() map[string]any

	GetRequestURL() string
	GetRequestParam(key string) (string, bool)
	GetQueryParam(key string) (string, bool)
	GetPostData() map[string]any
	GetSession() map[string]any
	GetState() map[string]any
	GetRequestHeader(name string) (string, bool)
	GetRequestCookie(name string) (string, bool)

	SetResponseHeader(name, value string)
	GetResponseHeader(name string) (string, bool)
	GetAllResponseHeaders() map[string]string
	SetResponseCookie(name, value string, opts CookieOptions)
	GetResponseCookie(name string) (Cookie, bool)
	GetAllResponseCookies() map[string]Cookie
}

// requestEffectContext implements EffectContext against one request's
// Context, tagging every answer mutation with source so answer history
// records which lifecycle moment wrote it.
type requestEffectContext struct {
	ctx    *Context
	source MutationSource
}

// NewEffectContext binds ctx to an effect invocation originating from
// source (load/access/action/submit).
func NewEffectContext(ctx *Context, source MutationSource) EffectContext {
	return &requestEffectContext{ctx: ctx, source: source}
}

func (e *requestEffectContext) GetAnswer(code string) (any, bool) {
	return e.ctx.Answers.Get(code)
}

func (e *requestEffectContext) SetAnswer(code string, value any) {
	e.ctx.Answers.Set(code, value, e.source)
	e.ctx.InvalidatePseudo(ast.PseudoMapKey{Kind: ast.PseudoAnswerLocal, Key: code})
	e.ctx.InvalidatePseudo(ast.PseudoMapKey{Kind: ast.PseudoAnswerRemote, Key: code})
}

func (e *requestEffectContext) HasAnswer(code string) bool {
	return e.ctx.Answers.Has(code)
}

func (e *requestEffectContext) ClearAnswer(code string) {
	e.ctx.Answers.Clear(code)
	e.ctx.InvalidatePseudo(ast.PseudoMapKey{Kind: ast.PseudoAnswerLocal, Key: code})
	e.ctx.InvalidatePseudo(ast.PseudoMapKey{Kind: ast.PseudoAnswerRemote, Key: code})
}

func (e *requestEffectContext) GetAllAnswers() map[string]any {
	return e.ctx.Answers.All()
}

func (e *requestEffectContext) GetAnswerHistory(code string) (AnswerHistory, bool) {
	return e.ctx.Answers.History(code)
}

func (e *requestEffectContext) GetAllAnswerHistories() map[string]AnswerHistory {
	return e.ctx.Answers.AllHistories()
}

func (e *requestEffectContext) GetData(key string) (any, bool) {
	return e.ctx.GetData(key)
}

func (e *requestEffectContext) SetData(key string, value any) {
	e.ctx.SetData(key, value)
}

func (e *requestEffectContext) GetAllData() map[string]any {
	return e.ctx.GetAllData()
}

func (e *requestEffectContext) GetRequestURL() string {
	if e.ctx.Request == nil {
		return ""
	}
	return e.ctx.Request.URL
}

func (e *requestEffectContext) GetRequestParam(key string) (string, bool) {
	if e.ctx.Request == nil {
		return "", false
	}
	v, ok := e.ctx.Request.Params[key]
	return v, ok
}

func (e *requestEffectContext) GetQueryParam(key string) (string, bool) {
	if e.ctx.Request == nil {
		return "", false
	}
	v, ok := e.ctx.Request.Query[key]
	return v, ok
}

func (e *requestEffectContext) GetPostData() map[string]any {
	if e.ctx.Request == nil {
		return nil
	}
	return e.ctx.Request.Post
}

func (e *requestEffectContext) GetSession() map[string]any {
	if e.ctx.Request == nil {
		return nil
	}
	return e.ctx.Request.Session
}

func (e *requestEffectContext) GetState() map[string]any {
	if e.ctx.Request == nil {
		return nil
	}
	return e.ctx.Request.State
}

func (e *requestEffectContext) GetRequestHeader(name string) (string, bool) {
	if e.ctx.Request == nil {
		return "", false
	}
	v, ok := e.ctx.Request.Headers[name]
	return v, ok
}

func (e *requestEffectContext) GetRequestCookie(name string) (string, bool) {
	if e.ctx.Request == nil {
		return "", false
	}
	v, ok := e.ctx.Request.Cookies[name]
	return v, ok
}

func (e *requestEffectContext) SetResponseHeader(name, value string) {
	e.ctx.Response.SetHeader(name, value)
}

func (e *requestEffectContext) GetResponseHeader(name string) (string, bool) {
	return e.ctx.Response.GetHeader(name)
}

func (e *requestEffectContext) GetAllResponseHeaders() map[string]string {
	return e.ctx.Response.AllHeaders()
}

func (e *requestEffectContext) SetResponseCookie(name, value string, opts CookieOptions) {
	e.ctx.Response.SetCookie(name, value, opts)
}

func (e *requestEffectContext) GetResponseCookie(name string) (Cookie, bool) {
	return e.ctx.Response.GetCookie(name)
}

func (e *requestEffectContext) GetAllResponseCookies() map[string]Cookie {
	return e.ctx.Response.AllCookies()
}
