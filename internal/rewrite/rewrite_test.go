package rewrite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSourceTokio(t *testing.T) {
	src := `struct Tokio {}

#[block_on("tokio")]
impl Tokio {
    async fn test_async(&self) {}
}
`

	output, changed, err := ExpandSource("lib.rs", src)
	require.NoError(t, err)
	assert.True(t, changed)

	// surrounding code survives, the attribute does not
	assert.Contains(t, output, "struct Tokio {}")
	assert.NotContains(t, output, "#[block_on")

	// the original async method is retained untouched
	assert.Contains(t, output, "async fn test_async(&self) {}")

	// and gains a blocking sibling that drives it on a fresh runtime
	assert.Contains(t, output, "fn test_async_blocking(&self) {")
	assert.Contains(t, output, "use tokio::runtime::Runtime;")
	assert.Contains(t, output, "let mut rt = Runtime::new().unwrap();")
	assert.Contains(t, output, "rt.block_on(self.test_async())")
}

func TestExpandSourceAsyncStd(t *testing.T) {
	src := `#[block_on("async-std")]
impl AsyncStd {
    async fn test_async(&self) {}
}
`

	output, changed, err := ExpandSource("lib.rs", src)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Contains(t, output, "fn test_async_blocking(&self) {")
	assert.Contains(t, output, "use async_std::task;")
	assert.Contains(t, output, "task::block_on(self.test_async())")
	assert.NotContains(t, output, "Runtime")
}

func TestExpandSourceForwardsArguments(t *testing.T) {
	src := `#[block_on("tokio")]
impl Mailer {
    pub async fn send(&self, to: Address, subject: String, body: String) -> Result<(), Error> {
        self.deliver(to, subject, body).await
    }

    pub async fn probe(addr: SocketAddr) -> bool {
        true
    }
}
`

	output, _, err := ExpandSource("mailer.rs", src)
	require.NoError(t, err)

	assert.Contains(t, output,
		"pub fn send_blocking(&self, to: Address, subject: String, body: String) -> Result<(), Error> {")
	assert.Contains(t, output, "rt.block_on(self.send(to, subject, body))")

	assert.Contains(t, output, "pub fn probe_blocking(addr: SocketAddr) -> bool {")
	assert.Contains(t, output, "rt.block_on(Mailer::probe(addr))")
}

func TestExpandSourcePassesThroughNonAsyncMembers(t *testing.T) {
	src := `#[block_on("tokio")]
impl Client {
    const RETRIES: u32 = 3;

    fn helper(&self) -> u32 { 7 }

    async fn fetch(&self) {}
}
`

	output, _, err := ExpandSource("client.rs", src)
	require.NoError(t, err)

	assert.Contains(t, output, "const RETRIES: u32 = 3;")
	assert.Contains(t, output, "fn helper(&self) -> u32 { 7 }")
	assert.Equal(t, 1, strings.Count(output, "const RETRIES"), "non-method members must not be duplicated")
	assert.Equal(t, 1, strings.Count(output, "fn helper"), "sync methods must not be duplicated")
	assert.Equal(t, 1, strings.Count(output, "fn fetch_blocking"))
}

func TestExpandSourceUnsupportedBackend(t *testing.T) {
	src := `#[block_on("smol")]
impl Smol {
    async fn test_async(&self) {}
}
`

	output, changed, err := ExpandSource("lib.rs", src)
	require.Error(t, err)
	assert.False(t, changed)
	assert.Empty(t, output, "a failed expansion must not produce partial output")
	assert.Contains(t, err.Error(), "only `tokio` and `async-std` backends are supported")
}

func TestExpandSourceNoAttributes(t *testing.T) {
	src := `impl Quiet {
    async fn nap(&self) {}
}
`

	output, changed, err := ExpandSource("lib.rs", src)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, src, output)
}

func TestExpandSourceMultipleBlocks(t *testing.T) {
	src := `#[block_on("tokio")]
impl First {
    async fn one(&self) {}
}

fn between() {}

#[block_on("tokio")]
impl Second {
    async fn two(&self) {}
}
`

	output, changed, err := ExpandSource("lib.rs", src)
	require.NoError(t, err)
	assert.True(t, changed)

	assert.Contains(t, output, "fn one_blocking(&self)")
	assert.Contains(t, output, "fn two_blocking(&self)")
	assert.Contains(t, output, "fn between() {}")
	assert.NotContains(t, output, "#[block_on")
}

func TestExpandSourceMalformedImpl(t *testing.T) {
	src := `#[block_on("tokio")]
struct NotAnImpl {}
`

	_, _, err := ExpandSource("lib.rs", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected an impl block")
}

func TestExpandFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.rs")
	src := `#[block_on("tokio")]
impl Tokio {
    async fn test_async(&self) {}
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	output, changed, err := ExpandFile(path)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, output, "fn test_async_blocking(&self)")
}

func TestExpandFileMissing(t *testing.T) {
	_, _, err := ExpandFile(filepath.Join(t.TempDir(), "absent.rs"))
	require.Error(t, err)
}
