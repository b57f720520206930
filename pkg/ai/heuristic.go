package ai

import (
	"fmt"
	"strings"

	"github.com/opendemo/opendemo-cli/pkg/models"
)

// knownLibraries lists well-known third-party packages per language. The
// heuristic classifier answers with high confidence for these without any
// network round trip.
var knownLibraries = map[string]map[string]bool{
	"python": set(
		"numpy", "pandas", "requests", "flask", "django", "fastapi",
		"scikit-learn", "sklearn", "tensorflow", "pytorch", "torch",
		"matplotlib", "seaborn", "sqlalchemy", "celery", "redis",
		"beautifulsoup", "bs4", "scrapy", "selenium", "pytest",
		"pydantic", "httpx", "aiohttp", "uvicorn", "gunicorn",
		"pillow", "opencv", "cv2", "boto3", "pymongo", "psycopg2",
	),
	"java": set(
		"spring", "spring-boot", "springboot", "hibernate", "mybatis",
		"junit", "mockito", "lombok", "jackson", "gson", "okhttp",
		"retrofit", "netty", "kafka", "rabbitmq", "redis", "jedis",
		"elasticsearch", "log4j", "slf4j", "logback", "guava",
	),
	"go": set(
		"gin", "echo", "fiber", "beego", "gorm", "cobra", "viper",
		"zap", "logrus", "testify", "wire", "fx", "grpc", "protobuf",
	),
	"nodejs": set(
		"express", "koa", "fastify", "nest", "nestjs", "next",
		"react", "vue", "angular", "axios", "lodash", "moment",
		"mongoose", "sequelize", "typeorm", "prisma", "jest",
		"mocha", "webpack", "vite", "socket.io", "redis", "bull",
	),
	"kubernetes": set(
		"kubeskoop", "istio", "cilium", "linkerd", "calico",
		"flannel", "weave", "helm", "kustomize", "argocd",
		"flux", "prometheus-operator", "grafana", "loki",
		"falco", "kubevirt", "knative", "cert-manager",
	),
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// heuristicClassify answers without the model: known libraries are
// accepted at high confidence, identifier-shaped keywords at medium
// confidence, everything else is a topic.
func heuristicClassify(language, keyword string) models.Classification {
	kw := strings.ToLower(strings.TrimSpace(keyword))

	for _, c := range kw {
		if c >= '一' && c <= '鿿' {
			return models.Classification{
				Confidence:  0.9,
				Description: "contains CJK ideographs, treated as a topic",
			}
		}
	}

	if knownLibraries[strings.ToLower(language)][kw] {
		return models.Classification{
			IsLibrary:   true,
			Confidence:  0.95,
			LibraryName: kw,
			Description: fmt.Sprintf("%s is a well-known %s library", kw, language),
		}
	}

	if looksLikeLibraryName(kw) {
		return models.Classification{
			IsLibrary:   true,
			Confidence:  0.6,
			LibraryName: kw,
			Description: "matches the shape of a library name",
		}
	}

	return models.Classification{
		Confidence:  0.7,
		Description: "does not match the shape of a library name, treated as a topic",
	}
}

func looksLikeLibraryName(kw string) bool {
	if len(kw) < 2 || len(kw) > 30 {
		return false
	}
	if kw[0] < 'a' || kw[0] > 'z' {
		return false
	}
	for _, c := range kw {
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' && c != '_' {
			return false
		}
	}
	return true
}
