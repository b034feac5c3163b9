package gts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sharktamer/gtsnotifier/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.GTSConfig{
		BaseURL:        baseURL,
		LanguageID:     "2",
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestFetchTradeState_ParsesLatestTrade(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/frontendApi/mypage/getGtsTradeList" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if got := r.PostForm.Get("memberSavedataIdCode"); got != "alice" {
			t.Errorf("memberSavedataIdCode = %q, want alice", got)
		}
		if got := r.PostForm.Get("accountId"); got != "acc-1" {
			t.Errorf("accountId = %q, want acc-1", got)
		}
		if got := r.PostForm.Get("count"); got != "1" {
			t.Errorf("count = %q, want 1", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tradeList": [{
				"postSimple": {"name": "Bulbasaur"},
				"tradePokemon": {"name": "Charmander"},
				"tradeDate": "2014/06/01 12:00"
			}]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	result, err := c.FetchTradeState(context.Background(), TradeQuery{
		ProfileID:  "alice",
		AccountID:  "acc-1",
		SaveDataID: "save-1",
	})
	if err != nil {
		t.Fatalf("FetchTradeState() failed: %v", err)
	}
	if result == nil {
		t.Fatal("expected a trade result")
	}
	if result.SentItem != "Bulbasaur" || result.ReceivedItem != "Charmander" {
		t.Fatalf("unexpected items: %+v", result)
	}
	if result.TradeDate != "2014/06/01 12:00" {
		t.Fatalf("unexpected trade date %q", result.TradeDate)
	}
}

func TestFetchTradeState_EmptyTradeListIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tradeList": []}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	result, err := c.FetchTradeState(context.Background(), TradeQuery{ProfileID: "alice"})
	if err != nil {
		t.Fatalf("FetchTradeState() failed: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result for empty trade list, got %+v", result)
	}
}

func TestFetchTradeState_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.FetchTradeState(context.Background(), TradeQuery{ProfileID: "alice"})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestFetchTradeState_MissingTradeDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tradeList": [{"postSimple": {"name": "A"}, "tradePokemon": {"name": "B"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.FetchTradeState(context.Background(), TradeQuery{ProfileID: "alice"})
	if err == nil {
		t.Fatal("expected error for trade record without tradeDate")
	}
}

func TestFetchProfilePage_RedirectToRootDetected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>home</html>"))
	})
	mux.HandleFunc("/user/ghost/gts/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)

	page, err := c.FetchProfilePage(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("FetchProfilePage() failed: %v", err)
	}
	if !page.RedirectedToRoot() {
		t.Fatalf("expected redirect-to-root detection, final URL %q root %q", page.FinalURL, page.RootURL)
	}
}

func TestFetchProfilePage_ValidProfileStaysPut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/alice/gts/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("var USERS_ACCOUNT_ID = 'acc-1';\nvar USERS_SAVEDATA_ID = 'save-1';\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)

	page, err := c.FetchProfilePage(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FetchProfilePage() failed: %v", err)
	}
	if page.RedirectedToRoot() {
		t.Fatal("valid profile must not be flagged as redirected")
	}

	accountID, saveDataID, err := page.Scrape()
	if err != nil {
		t.Fatalf("Scrape() failed: %v", err)
	}
	if accountID != "acc-1" || saveDataID != "save-1" {
		t.Fatalf("scrape mismatch: %q %q", accountID, saveDataID)
	}
}
