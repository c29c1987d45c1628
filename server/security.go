package server

import (
	"fmt"

	"github.com/gaborage/go-helmet/config"
	"github.com/gaborage/go-helmet/helmet"
)

// PolicyFromConfig maps the security section to a header set.
// Families keep the helmet.Default order; Cross-Origin-Embedder-Policy follows the CSP,
// and X-Powered-By and custom headers come last. The default configuration yields
// exactly helmet.Default().
func PolicyFromConfig(cfg *config.SecurityConfig) (helmet.Helmet, error) {
	h := helmet.New()
	if !cfg.Enabled {
		return h, nil
	}

	if cfg.CSP.Enabled {
		csp, err := cspFromConfig(&cfg.CSP)
		if err != nil {
			return helmet.Helmet{}, err
		}
		h = h.Add(csp)
	}
	if cfg.COEP != "" {
		h = h.Add(helmet.CrossOriginEmbedderPolicy(cfg.COEP))
	}
	if cfg.COOP != "" {
		h = h.Add(helmet.CrossOriginOpenerPolicy(cfg.COOP))
	}
	if cfg.CORP != "" {
		h = h.Add(helmet.CrossOriginResourcePolicy(cfg.CORP))
	}
	if cfg.OriginAgentCluster.Enabled {
		h = h.Add(helmet.OriginAgentCluster(cfg.OriginAgentCluster.Isolate))
	}
	if cfg.ReferrerPolicy != "" {
		h = h.Add(helmet.ReferrerPolicy(cfg.ReferrerPolicy))
	}
	if cfg.HSTS.Enabled {
		h = h.Add(hstsFromConfig(&cfg.HSTS))
	}
	if cfg.ContentTypeNoSniff {
		h = h.Add(helmet.NoSniff)
	}
	if cfg.DNSPrefetchControl != "" {
		h = h.Add(helmet.XDNSPrefetchControl(cfg.DNSPrefetchControl))
	}
	if cfg.DownloadNoOpen {
		h = h.Add(helmet.NoOpen)
	}
	if cfg.FrameOptions.Mode != "" {
		frame, err := frameFromConfig(&cfg.FrameOptions)
		if err != nil {
			return helmet.Helmet{}, err
		}
		h = h.Add(frame)
	}
	if cfg.PermittedCrossDomainPolicies != "" {
		h = h.Add(helmet.XPermittedCrossDomainPolicies(cfg.PermittedCrossDomainPolicies))
	}
	if cfg.XSSProtection.Enabled {
		h = h.Add(xssFromConfig(&cfg.XSSProtection))
	}
	if cfg.PoweredBy != "" {
		h = h.Add(helmet.XPoweredBy(cfg.PoweredBy))
	}
	for _, custom := range cfg.Custom {
		h = h.Add(helmet.CustomHeader(custom.Name, custom.Value))
	}

	return h, nil
}

func cspFromConfig(cfg *config.CSPConfig) (helmet.ContentSecurityPolicy, error) {
	csp := helmet.DefaultContentSecurityPolicy()
	if len(cfg.Directives) > 0 {
		csp = helmet.NewContentSecurityPolicy()
		for i, d := range cfg.Directives {
			name, err := helmet.ParseDirectiveName(d.Name)
			if err != nil {
				return helmet.ContentSecurityPolicy{}, fmt.Errorf("security.csp.directives[%d]: %w", i, err)
			}
			csp = csp.Directive(helmet.NewDirective(name, d.Values...))
		}
	}
	if cfg.ReportOnly {
		csp = csp.ReportOnly()
	}
	return csp, nil
}

func hstsFromConfig(cfg *config.HSTSConfig) helmet.StrictTransportSecurity {
	hsts := helmet.NewStrictTransportSecurity().MaxAge(cfg.MaxAge)
	if cfg.IncludeSubDomains {
		hsts = hsts.IncludeSubDomains()
	}
	if cfg.Preload {
		hsts = hsts.Preload()
	}
	return hsts
}

func frameFromConfig(cfg *config.FrameOptionsConfig) (helmet.XFrameOptions, error) {
	switch cfg.Mode {
	case config.FrameModeDeny:
		return helmet.FrameDeny(), nil
	case config.FrameModeSameOrigin:
		return helmet.FrameSameOrigin(), nil
	case config.FrameModeAllowFrom:
		return helmet.FrameAllowFrom(cfg.AllowFrom), nil
	default:
		return helmet.XFrameOptions{}, fmt.Errorf("security.frameoptions.mode: unsupported value %q", cfg.Mode)
	}
}

func xssFromConfig(cfg *config.XSSProtectionConfig) helmet.XXSSProtection {
	if !cfg.Filter {
		return helmet.XSSProtectionOff()
	}
	xss := helmet.XSSProtectionOn()
	if cfg.ModeBlock {
		xss = xss.ModeBlock()
	}
	if cfg.Report != "" {
		xss = xss.Report(cfg.Report)
	}
	return xss
}
