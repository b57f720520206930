package verify

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/opendemo/opendemo-cli/pkg/config"
)

// Verifier runs generated demos in a throwaway environment to confirm
// they actually execute. Each language has its own tool chain; every
// subprocess runs under a timeout.
type Verifier struct {
	config *config.Config
	logger *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{config: cfg, logger: logger}
}

// Result collects the outcome of one verification run.
type Result struct {
	Verified bool
	Skipped  bool
	Method   string
	Message  string
	Steps    []string
	Outputs  []string
	Errors   []string
}

func (r *Result) step(format string, args ...any) {
	r.Steps = append(r.Steps, fmt.Sprintf(format, args...))
}

func (r *Result) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Verify dispatches to the language's verification flow. When
// verification is disabled in config the result is marked skipped.
func (v *Verifier) Verify(ctx context.Context, demoPath, language string) Result {
	enabled := false
	if v.config != nil {
		enabled = v.config.GetBool("enable_verification", false)
	}
	if !enabled {
		return Result{Skipped: true, Message: "Verification is disabled"}
	}

	switch strings.ToLower(language) {
	case "python":
		return v.verifyPython(ctx, demoPath)
	case "go":
		return v.verifyGo(ctx, demoPath)
	case "java":
		return v.verifyJava(ctx, demoPath)
	case "nodejs":
		return v.verifyNode(ctx, demoPath)
	case "kubernetes":
		return v.verifyKubernetes(ctx, demoPath)
	default:
		return Result{Errors: []string{fmt.Sprintf("verification not supported for %s", language)}}
	}
}

func (v *Verifier) runTimeout() time.Duration {
	seconds := 300
	if v.config != nil {
		seconds = v.config.GetInt("verification_timeout", 300)
	}
	return time.Duration(seconds) * time.Second
}

// run executes one command with a timeout, returning stdout and stderr.
func run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) (string, string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("timed out after %s", timeout)
	}
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

func (v *Verifier) verifyPython(ctx context.Context, demoPath string) Result {
	result := Result{Method: "venv"}
	if v.config != nil {
		result.Method = v.config.GetString("verification_method", "venv")
	}

	work, cleanup, err := stageDemo(demoPath)
	if err != nil {
		result.fail("failed to stage demo: %v", err)
		return result
	}
	defer cleanup()
	result.step("Copied demo to temp directory")

	venvDir := filepath.Join(filepath.Dir(work), "venv")
	if _, stderr, err := run(ctx, "", 60*time.Second, pythonExecutable(), "-m", "venv", venvDir); err != nil {
		result.fail("failed to create virtual environment: %v %s", err, stderr)
		return result
	}
	result.step("Created virtual environment")

	requirements := filepath.Join(work, "requirements.txt")
	if _, err := os.Stat(requirements); err == nil {
		out, stderr, err := run(ctx, work, v.runTimeout(), venvBinary(venvDir, "pip"), "install", "-r", requirements)
		result.step("Installed dependencies")
		if out != "" {
			result.Outputs = append(result.Outputs, out)
		}
		if err != nil {
			result.fail("failed to install dependencies: %v %s", err, stderr)
			return result
		}
	}

	codeDir := filepath.Join(work, "code")
	entries, _ := os.ReadDir(codeDir)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".py" {
			continue
		}
		out, stderr, err := run(ctx, codeDir, v.runTimeout(), venvBinary(venvDir, "python"), filepath.Join(codeDir, e.Name()))
		result.step("Executed %s", e.Name())
		if out != "" {
			result.Outputs = append(result.Outputs, fmt.Sprintf("=== %s ===\n%s", e.Name(), out))
		}
		if err != nil {
			result.fail("execution failed for %s: %v %s", e.Name(), err, stderr)
			return result
		}
	}

	result.Verified = true
	result.Message = "All verification steps passed"
	return result
}

func (v *Verifier) verifyGo(ctx context.Context, demoPath string) Result {
	result := Result{Method: "go"}

	out, _, err := run(ctx, "", 10*time.Second, "go", "version")
	if err != nil {
		result.fail("Go is not installed or not in PATH")
		return result
	}
	result.step("Go environment check: %s", out)

	work, cleanup, err := stageDemo(demoPath)
	if err != nil {
		result.fail("failed to stage demo: %v", err)
		return result
	}
	defer cleanup()
	result.step("Copied demo to temp directory")

	if _, err := os.Stat(filepath.Join(work, "go.mod")); err != nil {
		if _, stderr, err := run(ctx, work, 30*time.Second, "go", "mod", "init", "demo"); err != nil {
			result.fail("failed to initialize go.mod: %v %s", err, stderr)
			return result
		}
		result.step("Initialized go.mod")
	}

	if _, stderr, err := run(ctx, work, 2*time.Minute, "go", "mod", "tidy"); err != nil {
		result.fail("failed to run go mod tidy: %v %s", err, stderr)
		return result
	}
	result.step("Installed dependencies (go mod tidy)")

	if _, stderr, err := run(ctx, work, 2*time.Minute, "go", "build", "./..."); err != nil {
		result.fail("build failed: %v %s", err, stderr)
		return result
	}
	result.step("Build check passed")

	runDir := work
	codeDir := filepath.Join(work, "code")
	if hasFilesWithExt(codeDir, ".go") {
		runDir = codeDir
	}
	out, stderr, err := run(ctx, runDir, v.runTimeout(), "go", "run", ".")
	result.step("Executed Go code")
	if out != "" {
		result.Outputs = append(result.Outputs, "=== Go Output ===\n"+out)
	}
	if err != nil {
		result.fail("execution failed: %v %s", err, stderr)
		return result
	}

	result.Verified = true
	result.Message = "All verification steps passed"
	return result
}

// verifyJava builds with Maven when the demo ships a pom.xml, otherwise
// compiles the sources directly and runs the class that declares main.
func (v *Verifier) verifyJava(ctx context.Context, demoPath string) Result {
	result := Result{Method: "java"}

	out, stderr, err := run(ctx, "", 10*time.Second, "javac", "-version")
	if err != nil {
		result.fail("JDK is not installed or not in PATH")
		return result
	}
	if out == "" {
		// Older JDKs print the version on stderr.
		out = stderr
	}
	result.step("Java environment check: %s", out)

	work, cleanup, err := stageDemo(demoPath)
	if err != nil {
		result.fail("failed to stage demo: %v", err)
		return result
	}
	defer cleanup()
	result.step("Copied demo to temp directory")

	if _, err := os.Stat(filepath.Join(work, "pom.xml")); err == nil {
		out, stderr, err := run(ctx, work, v.runTimeout(), "mvn", "-q", "compile", "exec:java")
		result.step("Built and executed with Maven")
		if out != "" {
			result.Outputs = append(result.Outputs, "=== Maven Output ===\n"+out)
		}
		if err != nil {
			result.fail("maven build failed: %v %s", err, stderr)
			return result
		}
		result.Verified = true
		result.Message = "All verification steps passed"
		return result
	}

	codeDir := filepath.Join(work, "code")
	if !hasFilesWithExt(codeDir, ".java") {
		codeDir = work
	}
	sources := javaSources(codeDir)
	if len(sources) == 0 {
		result.fail("no Java source files found")
		return result
	}

	if _, stderr, err := run(ctx, codeDir, 2*time.Minute, "javac", append([]string{"-d", "."}, sources...)...); err != nil {
		result.fail("compilation failed: %v %s", err, stderr)
		return result
	}
	result.step("Compiled Java sources")

	mainClass := findJavaMain(codeDir)
	if mainClass == "" {
		result.fail("no class with a main method found")
		return result
	}
	out, stderr, err = run(ctx, codeDir, v.runTimeout(), "java", mainClass)
	result.step("Executed %s", mainClass)
	if out != "" {
		result.Outputs = append(result.Outputs, "=== Java Output ===\n"+out)
	}
	if err != nil {
		result.fail("execution failed: %v %s", err, stderr)
		return result
	}

	result.Verified = true
	result.Message = "All verification steps passed"
	return result
}

func (v *Verifier) verifyNode(ctx context.Context, demoPath string) Result {
	result := Result{Method: "nodejs"}

	out, _, err := run(ctx, "", 10*time.Second, "node", "--version")
	if err != nil {
		result.fail("Node.js is not installed or not in PATH")
		return result
	}
	result.step("Node.js environment check: %s", out)

	work, cleanup, err := stageDemo(demoPath)
	if err != nil {
		result.fail("failed to stage demo: %v", err)
		return result
	}
	defer cleanup()
	result.step("Copied demo to temp directory")

	packageJSON := filepath.Join(work, "package.json")
	hasPackage := false
	if _, err := os.Stat(packageJSON); err == nil {
		hasPackage = true
		if _, stderr, err := run(ctx, work, 5*time.Minute, "npm", "install"); err != nil {
			result.fail("failed to install dependencies: %v %s", err, stderr)
			return result
		}
		result.step("Installed dependencies (npm install)")
	}

	codeDir := filepath.Join(work, "code")
	mainFile := findNodeMain(codeDir)

	var stderr string
	switch {
	case mainFile != "":
		out, stderr, err = run(ctx, codeDir, v.runTimeout(), "node", mainFile)
		result.step("Executed %s", filepath.Base(mainFile))
	case hasPackage:
		out, stderr, err = run(ctx, work, v.runTimeout(), "npm", "start")
		result.step("Executed npm start")
	default:
		result.fail("no executable JavaScript file found")
		return result
	}

	if out != "" {
		result.Outputs = append(result.Outputs, "=== Node.js Output ===\n"+out)
	}
	if err != nil {
		result.fail("execution failed: %v %s", err, stderr)
		return result
	}

	result.Verified = true
	result.Message = "All verification steps passed"
	return result
}

// verifyKubernetes validates manifests without touching a cluster:
// client-side dry runs for every manifest, plus helm lint when the demo
// ships a chart.
func (v *Verifier) verifyKubernetes(ctx context.Context, demoPath string) Result {
	result := Result{Method: "kubernetes"}

	if _, _, err := run(ctx, "", 10*time.Second, "kubectl", "version", "--client"); err != nil {
		result.fail("kubectl is not installed or not in PATH")
		return result
	}
	result.step("kubectl environment check passed")

	manifests := findManifests(demoPath)
	if len(manifests) == 0 {
		result.fail("no Kubernetes manifests found")
		return result
	}

	for _, manifest := range manifests {
		out, stderr, err := run(ctx, demoPath, v.runTimeout(), "kubectl", "apply", "--dry-run=client", "-f", manifest)
		rel, _ := filepath.Rel(demoPath, manifest)
		result.step("Dry-run applied %s", rel)
		if out != "" {
			result.Outputs = append(result.Outputs, fmt.Sprintf("=== %s ===\n%s", rel, out))
		}
		if err != nil {
			result.fail("dry-run failed for %s: %v %s", rel, err, stderr)
			return result
		}
	}

	if _, err := os.Stat(filepath.Join(demoPath, "Chart.yaml")); err == nil {
		out, stderr, err := run(ctx, demoPath, v.runTimeout(), "helm", "lint", ".")
		result.step("Linted Helm chart")
		if out != "" {
			result.Outputs = append(result.Outputs, "=== helm lint ===\n"+out)
		}
		if err != nil {
			result.fail("helm lint failed: %v %s", err, stderr)
			return result
		}
	}

	result.Verified = true
	result.Message = "All verification steps passed"
	return result
}

// stageDemo copies the demo into a fresh temp directory so verification
// never mutates the library copy. The caller must invoke cleanup.
func stageDemo(demoPath string) (string, func(), error) {
	tempDir, err := os.MkdirTemp("", "opendemo-verify-")
	if err != nil {
		return "", nil, err
	}
	work := filepath.Join(tempDir, "demo")
	if err := copyTree(demoPath, work); err != nil {
		os.RemoveAll(tempDir)
		return "", nil, err
	}
	return work, func() { os.RemoveAll(tempDir) }, nil
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		defer out.Close()
		_, err = io.Copy(out, in)
		return err
	})
}

func pythonExecutable() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

func venvBinary(venvDir, name string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts", name+".exe")
	}
	return filepath.Join(venvDir, "bin", name)
}

func hasFilesWithExt(dir, ext string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ext {
			return true
		}
	}
	return false
}

func findNodeMain(codeDir string) string {
	for _, name := range []string{"main.js", "index.js"} {
		candidate := filepath.Join(codeDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	entries, err := os.ReadDir(codeDir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".js" {
			return filepath.Join(codeDir, e.Name())
		}
	}
	return ""
}

func javaSources(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var sources []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".java" {
			sources = append(sources, e.Name())
		}
	}
	return sources
}

// findJavaMain returns the class name of the first source file that
// declares a main method, or empty when none does.
func findJavaMain(dir string) string {
	for _, name := range javaSources(dir) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if strings.Contains(string(data), "static void main") {
			return strings.TrimSuffix(name, ".java")
		}
	}
	return ""
}

func findManifests(demoPath string) []string {
	var manifests []string
	for _, dir := range []string{demoPath, filepath.Join(demoPath, "code"), filepath.Join(demoPath, "manifests")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := filepath.Ext(e.Name())
			if (ext == ".yaml" || ext == ".yml") && e.Name() != "Chart.yaml" && e.Name() != "values.yaml" {
				manifests = append(manifests, filepath.Join(dir, e.Name()))
			}
		}
	}
	return manifests
}
