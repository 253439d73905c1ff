package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"itshere/auth"
	"itshere/moderation"
	"itshere/repositories"
	"itshere/services"
	"itshere/storage"
)

const testPassword = "Str0ng-Enough-Pass!"

// newTestServer wires the full stack against throwaway Badger and Bluge
// stores, the same way cmd/server does.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	req := require.New(t)

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	index, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	req.NoError(err)
	t.Cleanup(func() { _ = index.Close() })

	log := slog.Default()
	userRepo := repositories.NewUserRepository(db)
	roomRepo := repositories.NewRoomRepository(db, log)
	messageRepo, err := repositories.NewMessageRepository(db, log, nil)
	req.NoError(err)
	t.Cleanup(func() { _ = messageRepo.Close() })
	postRepo := repositories.NewPostRepository(db, index, log, 10)

	censor, err := moderation.NewCensor([]string{"idiot"}, '*')
	req.NoError(err)

	imageStore, err := storage.NewImageStore(t.TempDir(), log)
	req.NoError(err)

	codec := auth.NewCodec([]byte("integration-test-secret"), time.Hour)
	server := NewServer(
		services.NewAuthService(userRepo, codec),
		services.NewChatService(userRepo, roomRepo, messageRepo, censor, log),
		services.NewPostService(postRepo, userRepo),
		services.NewAccountService(userRepo),
		imageStore,
		auth.NewGate(codec),
		log,
	)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func registerAndLogin(t *testing.T, client *http.Client, baseURL, username string) {
	t.Helper()

	resp := postJSON(t, client, baseURL+"/api/register", map[string]string{
		"username": username,
		"gmail":    username + "@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, client, baseURL+"/api/login", map[string]string{
		"username": username,
		"pwd":      testPassword,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestServer_LoginSetsCookieAndToken(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)
	client := newClient(t)

	resp := postJSON(t, client, ts.URL+"/api/register", map[string]string{
		"username": "alice",
		"gmail":    "alice@example.com",
		"password": testPassword,
	})
	req.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, client, ts.URL+"/api/login", map[string]string{
		"username": "alice",
		"pwd":      testPassword,
	})
	req.Equal(http.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName {
			sessionCookie = c
		}
	}
	req.NotNil(sessionCookie)
	req.True(sessionCookie.HttpOnly)

	body := decodeResponse(t, resp)
	result, ok := body["result"].(map[string]any)
	req.True(ok)
	req.Equal(true, result["success"])
	req.NotEmpty(result["token"])
}

func TestServer_LoginWrongPassword(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)
	client := newClient(t)

	registerAndLogin(t, client, ts.URL, "alice")

	resp := postJSON(t, client, ts.URL+"/api/login", map[string]string{
		"username": "alice",
		"pwd":      "not-the-password",
	})
	defer resp.Body.Close()
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_ChatRequiresSession(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	// No cookie at all.
	resp, err := http.Get(ts.URL + "/api/chat/bob")
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusUnauthorized, resp.StatusCode)

	// Garbage cookie.
	request, err := http.NewRequest(http.MethodGet, ts.URL+"/api/chat/bob", nil)
	req.NoError(err)
	request.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "not-a-token"})
	resp, err = http.DefaultClient.Do(request)
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_ExpiredTokenRejected(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	expired := auth.NewCodec([]byte("integration-test-secret"), -time.Minute)
	token, err := expired.Issue("alice")
	req.NoError(err)

	request, err := http.NewRequest(http.MethodGet, ts.URL+"/api/chats", nil)
	req.NoError(err)
	request.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	resp, err := http.DefaultClient.Do(request)
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func TestServer_ChatFlow(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	alice := newClient(t)
	bob := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice")
	registerAndLogin(t, bob, ts.URL, "bob")

	// Alice opens the chat and sends two messages.
	resp := postJSON(t, alice, ts.URL+"/api/chat/create/bob", nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	created := decodeResponse(t, resp)
	room, ok := created["room"].(map[string]any)
	req.True(ok)
	roomID := room["id"]
	req.NotEmpty(roomID)

	resp = postJSON(t, alice, ts.URL+"/api/chat/bob", map[string]string{"message": "hello bob"})
	req.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = postJSON(t, alice, ts.URL+"/api/chat/bob", map[string]string{"message": "are you there?"})
	req.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Bob reads the same room from his side, in sent order.
	resp, err := bob.Get(ts.URL + "/api/chat/alice")
	req.NoError(err)
	req.Equal(http.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp)
	messages, ok := body["messages"].([]any)
	req.True(ok)
	req.Len(messages, 2)
	first, ok := messages[0].(map[string]any)
	req.True(ok)
	req.Equal("hello bob", first["message"])
	req.Equal("alice", first["sender"])

	// Creating the chat from bob's side lands on the same room.
	resp = postJSON(t, bob, ts.URL+"/api/chat/create/alice", nil)
	req.Equal(http.StatusOK, resp.StatusCode)
	created = decodeResponse(t, resp)
	room, ok = created["room"].(map[string]any)
	req.True(ok)
	req.Equal(roomID, room["id"])

	// Both see the conversation in their chat list.
	resp, err = alice.Get(ts.URL + "/api/chats")
	req.NoError(err)
	body = decodeResponse(t, resp)
	chats, ok := body["chats"].([]any)
	req.True(ok)
	req.Len(chats, 1)
}

func TestServer_ChatWithUnknownPeer(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice")

	resp := postJSON(t, alice, ts.URL+"/api/chat/create/ghost", nil)
	defer resp.Body.Close()
	req.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestServer_MessageIsCensored(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	alice := newClient(t)
	bob := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice")
	registerAndLogin(t, bob, ts.URL, "bob")

	resp := postJSON(t, alice, ts.URL+"/api/chat/bob", map[string]string{"message": "you idiot"})
	req.Equal(http.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp)
	data, ok := body["data"].(map[string]any)
	req.True(ok)
	req.Equal("you *****", data["message"])
}

func TestServer_PostFlow(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	alice := newClient(t)
	bob := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice")
	registerAndLogin(t, bob, ts.URL, "bob")

	resp := postJSON(t, alice, ts.URL+"/api/post", map[string]string{
		"description": "last seen near the train station",
		"date":        "2026-08-12",
		"place":       "Lyon",
	})
	req.Equal(http.StatusOK, resp.StatusCode)
	created := decodeResponse(t, resp)
	post, ok := created["post"].(map[string]any)
	req.True(ok)
	postID, ok := post["id"].(string)
	req.True(ok)

	// Listing is public and joins the author profile.
	resp, err := http.Get(ts.URL + "/api/posts")
	req.NoError(err)
	req.Equal(http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var views []map[string]any
	req.NoError(json.NewDecoder(resp.Body).Decode(&views))
	req.Len(views, 1)
	author, ok := views[0]["user"].(map[string]any)
	req.True(ok)
	req.Equal("alice", author["username"])

	// Bob comments, anyone can read the comments.
	resp = postJSON(t, bob, fmt.Sprintf("%s/api/post/%s/comment", ts.URL, postID),
		map[string]string{"message": "I saw her yesterday"})
	req.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(fmt.Sprintf("%s/api/post/%s/comments", ts.URL, postID))
	req.NoError(err)
	req.Equal(http.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp)
	comments, ok := body["comments"].([]any)
	req.True(ok)
	req.Len(comments, 1)
	comment, ok := comments[0].(map[string]any)
	req.True(ok)
	req.Equal("bob", comment["author"])

	// Search is public.
	resp, err = http.Get(ts.URL + "/api/posts/search?q=station")
	req.NoError(err)
	req.Equal(http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	var hits []map[string]any
	req.NoError(json.NewDecoder(resp.Body).Decode(&hits))
	req.Len(hits, 1)
}

func TestServer_EditEmail(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice")

	data, err := json.Marshal(map[string]string{"gmail": "alice.new@example.com"})
	req.NoError(err)
	request, err := http.NewRequest(http.MethodPut, ts.URL+"/api/edit/email", bytes.NewReader(data))
	req.NoError(err)
	resp, err := alice.Do(request)
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	// The profile shown on posts reflects the change.
	resp = postJSON(t, alice, ts.URL+"/api/post", map[string]string{
		"description": "a report",
		"place":       "Paris",
	})
	req.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/posts/alice")
	req.NoError(err)
	defer resp.Body.Close()
	var views []map[string]any
	req.NoError(json.NewDecoder(resp.Body).Decode(&views))
	req.Len(views, 1)
	author, ok := views[0]["user"].(map[string]any)
	req.True(ok)
	req.Equal("alice.new@example.com", author["gmail"])
}

// pngHeader is enough for content sniffing to classify the upload.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func uploadFile(t *testing.T, client *http.Client, url string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", "upload.bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	resp, err := client.Post(url, form.FormDataContentType(), &buf)
	require.NoError(t, err)
	return resp
}

func TestServer_ImageUploadAndDownload(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice")

	resp := uploadFile(t, alice, ts.URL+"/api/upload", pngHeader)
	req.Equal(http.StatusOK, resp.StatusCode)
	body := decodeResponse(t, resp)
	link, ok := body["link"].(string)
	req.True(ok)
	req.NotEmpty(link)

	resp, err := http.Get(ts.URL + link)
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	req.NoError(err)
	req.Equal(pngHeader, data)
}

func TestServer_ImageUploadRejectsNonImage(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice")

	resp := uploadFile(t, alice, ts.URL+"/api/upload", []byte("just some text"))
	defer resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestServer_RegisterRejectsSeparatorUsername(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)
	client := newClient(t)

	// Store keys join usernames with ":", so a username carrying the
	// separator could alias another pair's room key. Registration is the
	// only place usernames enter the system and must reject it.
	for _, username := range []string{"a:b", "room:pair:x", "alice bob"} {
		resp := postJSON(t, client, ts.URL+"/api/register", map[string]string{
			"username": username,
			"gmail":    "someone@example.com",
			"password": testPassword,
		})
		resp.Body.Close()
		req.Equal(http.StatusBadRequest, resp.StatusCode, username)
	}
}

func TestServer_RegisterDuplicateGmail(t *testing.T) {
	req := require.New(t)
	ts := newTestServer(t)
	client := newClient(t)

	registerAndLogin(t, client, ts.URL, "alice")

	resp := postJSON(t, client, ts.URL+"/api/register", map[string]string{
		"username": "alice2",
		"gmail":    "alice@example.com",
		"password": testPassword,
	})
	defer resp.Body.Close()
	req.Equal(http.StatusConflict, resp.StatusCode)
}
