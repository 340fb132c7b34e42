package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// AnyCaller marks a route open to every authenticated role
const AnyCaller identity.Operation = ""

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouteInfo describes one registered route and the operation guarding it
type RouteInfo struct {
	Method    string
	Path      string
	Operation identity.Operation
}

// DomainGroup collects the routes of one resource under a prefix. Each
// route names the operation it performs; the group puts the role check for
// that operation in front of the handlers.
type DomainGroup struct {
	name       string
	prefix     string
	gate       *identity.Gate
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	op       identity.Operation
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a route group checked against gate. A nil gate
// registers routes without role checks.
func NewDomainGroup(name, prefix string, gate *identity.Gate) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix, gate: gate}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(mw ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, mw...)
	return dg
}

func (dg *DomainGroup) GET(p string, op identity.Operation, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, p, op, handlers)
}

func (dg *DomainGroup) POST(p string, op identity.Operation, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, p, op, handlers)
}

func (dg *DomainGroup) DELETE(p string, op identity.Operation, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, p, op, handlers)
}

func (dg *DomainGroup) handle(method, p string, op identity.Operation, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: p, op: op, handlers: handlers})
	return dg
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		chain := route.handlers
		if dg.gate != nil && route.op != AnyCaller {
			chain = append([]gin.HandlerFunc{middleware.Authorize(dg.gate, route.op)}, route.handlers...)
		}
		group.Handle(route.method, route.path, chain...)
	}
}

// Routes lists the group's routes relative to the API root
func (dg *DomainGroup) Routes() []RouteInfo {
	out := make([]RouteInfo, len(dg.routes))
	for i, r := range dg.routes {
		full := path.Join(dg.prefix, r.path)
		out[i] = RouteInfo{Method: r.method, Path: full, Operation: r.op}
	}
	return out
}

func (dg *DomainGroup) Name() string {
	return dg.name
}

func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}
