// Package ipfstest provides an in-memory fake of the daemon's HTTP API for
// tests, examples and the sandbox binary. It speaks the same wire protocol
// as the real daemon: query-string arguments, multipart uploads, and JSON
// or NDJSON response bodies.
package ipfstest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Daemon holds the fake node's state. All methods are safe for concurrent
// use.
type Daemon struct {
	mu        sync.Mutex
	peerID    string
	blocks    map[string][]byte
	dags      map[string]json.RawMessage
	pins      map[string]bool
	keys      map[string]string   // key name -> key id
	names     map[string]string   // ipns name -> published path
	peers     map[string][]string // peer id -> multiaddrs
	providers map[string][]string // cid -> provider peer ids
	config    map[string]any

	latency  time.Duration
	failRate float64
	failCode int
}

// New constructs a fake daemon with a fresh identity and a minimal config.
func New() *Daemon {
	return &Daemon{
		peerID:    fakePeerID(),
		blocks:    make(map[string][]byte),
		dags:      make(map[string]json.RawMessage),
		pins:      make(map[string]bool),
		keys:      map[string]string{"self": fakePeerID()},
		names:     make(map[string]string),
		peers:     make(map[string][]string),
		providers: make(map[string][]string),
		config: map[string]any{
			"Datastore": map[string]any{"GCPeriod": "1h", "StorageMax": "10GB"},
			"Addresses": map[string]any{"API": "/ip4/127.0.0.1/tcp/5001"},
		},
	}
}

// PeerID reports the fake node's peer id.
func (d *Daemon) PeerID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.peerID
}

// AddPeer registers a peer the routing and swarm endpoints will know about.
func (d *Daemon) AddPeer(id string, addrs ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.peers[id] = append([]string(nil), addrs...)
}

// SeedBlock stores raw data under its content hash and returns the hash.
func (d *Daemon) SeedBlock(data []byte) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	cid := fakeCID(data)
	d.blocks[cid] = append([]byte(nil), data...)
	return cid
}

// AddProvider registers a provider peer for a content hash.
func (d *Daemon) AddProvider(cid, peerID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.providers[cid] = append(d.providers[cid], peerID)
}

// SetLatency injects an artificial delay before every response.
func (d *Daemon) SetLatency(latency time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latency = latency
}

// SetFailure makes a fraction of requests fail with the given status code.
func (d *Daemon) SetFailure(rate float64, code int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failRate = rate
	d.failCode = code
}

// Handler returns the daemon's HTTP API mounted under /api/v0.
func (d *Daemon) Handler() http.Handler {
	mux := http.NewServeMux()
	route := func(path string, h http.HandlerFunc) {
		mux.HandleFunc("/api/v0/"+path, d.withInjection(h))
	}

	route("id", d.handleID)
	route("version", d.handleVersion)
	route("config/show", d.handleConfigShow)
	route("config", d.handleConfig)
	route("config/replace", d.handleConfigReplace)
	route("add", d.handleAdd)
	route("cat", d.handleCat)
	route("file/ls", d.handleFileLs)
	route("block/put", d.handleBlockPut)
	route("block/get", d.handleBlockGet)
	route("block/stat", d.handleBlockStat)
	route("key/gen", d.handleKeyGen)
	route("key/list", d.handleKeyList)
	route("key/rm", d.handleKeyRm)
	route("key/rename", d.handleKeyRename)
	route("name/publish", d.handleNamePublish)
	route("name/resolve", d.handleNameResolve)
	route("dag/put", d.handleDagPut)
	route("dag/get", d.handleDagGet)
	route("dag/resolve", d.handleDagResolve)
	route("dag/stat", d.handleDagStat)
	route("dag/export", d.handleDagExport)
	route("dag/import", d.handleDagImport)
	route("pin/add", d.handlePinAdd)
	route("pin/ls", d.handlePinLs)
	route("pin/rm", d.handlePinRm)
	route("routing/findpeer", d.handleFindPeer)
	route("routing/findprovs", d.handleFindProvs)
	route("stats/bw", d.handleStatsBw)
	route("stats/repo", d.handleStatsRepo)
	route("swarm/addrs", d.handleSwarmAddrs)
	route("swarm/peers", d.handleSwarmPeers)
	route("swarm/connect", d.handleSwarmConnect)
	route("swarm/disconnect", d.handleSwarmDisconnect)

	return mux
}

func (d *Daemon) withInjection(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		latency := d.latency
		failRate := d.failRate
		failCode := d.failCode
		d.mu.Unlock()

		if latency > 0 {
			select {
			case <-time.After(latency):
			case <-r.Context().Done():
				return
			}
		}
		if failRate > 0 && rand.Float64() < failRate {
			writeError(w, failCode, "injected failure")
			return
		}
		h(w, r)
	}
}

func (d *Daemon) handleID(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	id := d.peerID
	d.mu.Unlock()
	writeJSON(w, map[string]any{
		"ID":           id,
		"Addresses":    []string{"/ip4/127.0.0.1/tcp/4001/p2p/" + id},
		"AgentVersion": "ipfstest/0.1.0",
	})
}

func (d *Daemon) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"Version": "0.1.0-fake", "Commit": "", "Repo": "16"})
}

func (d *Daemon) handleConfigShow(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	writeJSON(w, d.config)
}

func (d *Daemon) handleConfig(w http.ResponseWriter, r *http.Request) {
	args := r.URL.Query()["arg"]
	if len(args) == 0 {
		writeError(w, http.StatusBadRequest, "argument \"key\" is required")
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	key := args[0]
	if len(args) > 1 {
		var value any
		if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
			// The real daemon stores an unparseable second arg as a string.
			value = args[1]
		}
		d.config[key] = value
	}
	value, ok := d.config[key]
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("key has no attributes: %q", key))
		return
	}
	writeJSON(w, map[string]any{"Key": key, "Value": value})
}

func (d *Daemon) handleConfigReplace(w http.ResponseWriter, r *http.Request) {
	parts, err := readParts(r)
	if err != nil || len(parts) == 0 {
		writeError(w, http.StatusBadRequest, "file argument was not provided")
		return
	}
	var replacement map[string]any
	if err := json.Unmarshal(parts[0].data, &replacement); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode file as json: "+err.Error())
		return
	}
	d.mu.Lock()
	d.config = replacement
	d.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

// handleAdd stores each uploaded file and emits the daemon's NDJSON
// progress stream: all per-file byte counts first, then the hashes, which
// exercises out-of-order merging on the client side.
func (d *Daemon) handleAdd(w http.ResponseWriter, r *http.Request) {
	parts, err := readParts(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	type added struct {
		name string
		size int
		cid  string
	}
	results := make([]added, 0, len(parts))
	d.mu.Lock()
	for _, p := range parts {
		cid := fakeCID(p.data)
		d.blocks[cid] = p.data
		results = append(results, added{name: p.name, size: len(p.data), cid: cid})
	}
	d.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	for _, res := range results {
		enc.Encode(map[string]any{"Name": res.name, "Bytes": res.size})
	}
	for _, res := range results {
		enc.Encode(map[string]any{"Name": res.name, "Hash": res.cid})
	}
}

func (d *Daemon) handleCat(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	data, ok := d.blocks[cid]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "merkledag: not found")
		return
	}
	w.Write(data)
}

func (d *Daemon) handleFileLs(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	data, ok := d.blocks[cid]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "merkledag: not found")
		return
	}
	writeJSON(w, map[string]any{
		"Arguments": map[string]any{cid: cid},
		"Objects": map[string]any{
			cid: map[string]any{"Hash": cid, "Size": len(data), "Type": "File"},
		},
	})
}

func (d *Daemon) handleBlockPut(w http.ResponseWriter, r *http.Request) {
	parts, err := readParts(r)
	if err != nil || len(parts) == 0 {
		writeError(w, http.StatusBadRequest, "file argument was not provided")
		return
	}
	data := parts[0].data
	cid := fakeCID(data)
	d.mu.Lock()
	d.blocks[cid] = data
	d.mu.Unlock()
	writeJSON(w, map[string]any{"Key": cid, "Size": len(data)})
}

func (d *Daemon) handleBlockGet(w http.ResponseWriter, r *http.Request) {
	d.handleCat(w, r)
}

func (d *Daemon) handleBlockStat(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	data, ok := d.blocks[cid]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "merkledag: not found")
		return
	}
	writeJSON(w, map[string]any{"Key": cid, "Size": len(data)})
}

func (d *Daemon) handleKeyGen(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("arg")
	if name == "" {
		writeError(w, http.StatusBadRequest, "argument \"name\" is required")
		return
	}
	id := "k51" + strings.ReplaceAll(uuid.NewString(), "-", "")
	d.mu.Lock()
	d.keys[name] = id
	d.mu.Unlock()
	writeJSON(w, map[string]any{"Name": name, "Id": id})
}

func (d *Daemon) handleKeyList(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	names := make([]string, 0, len(d.keys))
	for name := range d.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	keys := make([]map[string]any, 0, len(names))
	for _, name := range names {
		keys = append(keys, map[string]any{"Name": name, "Id": d.keys[name]})
	}
	d.mu.Unlock()
	writeJSON(w, map[string]any{"Keys": keys})
}

func (d *Daemon) handleKeyRm(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("arg")
	d.mu.Lock()
	id, ok := d.keys[name]
	delete(d.keys, name)
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("no key named %q was found", name))
		return
	}
	writeJSON(w, map[string]any{"Keys": []map[string]any{{"Name": name, "Id": id}}})
}

func (d *Daemon) handleKeyRename(w http.ResponseWriter, r *http.Request) {
	args := r.URL.Query()["arg"]
	if len(args) < 2 {
		writeError(w, http.StatusBadRequest, "two arguments are required")
		return
	}
	oldName, newName := args[0], args[1]
	d.mu.Lock()
	id, ok := d.keys[oldName]
	if ok {
		delete(d.keys, oldName)
		d.keys[newName] = id
	}
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("no key named %q was found", oldName))
		return
	}
	writeJSON(w, map[string]any{"Was": oldName, "Now": newName, "Id": id, "Overwrite": false})
}

func (d *Daemon) handleNamePublish(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("arg")
	keyName := r.URL.Query().Get("key")
	if keyName == "" {
		keyName = "self"
	}
	d.mu.Lock()
	id, ok := d.keys[keyName]
	if ok {
		d.names[id] = path
	}
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("no key by the given name %q was found", keyName))
		return
	}
	writeJSON(w, map[string]any{"Name": id, "Value": path})
}

func (d *Daemon) handleNameResolve(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("arg")
	d.mu.Lock()
	path, ok := d.names[name]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "could not resolve name")
		return
	}
	writeJSON(w, map[string]any{"Path": path})
}

func (d *Daemon) handleDagPut(w http.ResponseWriter, r *http.Request) {
	parts, err := readParts(r)
	if err != nil || len(parts) == 0 {
		writeError(w, http.StatusBadRequest, "file argument was not provided")
		return
	}
	var node any
	if err := json.Unmarshal(parts[0].data, &node); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode dag node: "+err.Error())
		return
	}
	canonical, _ := json.Marshal(node)
	cid := fakeCID(canonical)
	d.mu.Lock()
	d.dags[cid] = canonical
	if r.URL.Query().Get("pin") == "true" {
		d.pins[cid] = true
	}
	d.mu.Unlock()
	writeJSON(w, map[string]any{"Cid": map[string]any{"/": cid}})
}

func (d *Daemon) handleDagGet(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	node, ok := d.dags[cid]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "merkledag: not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(node)
}

func (d *Daemon) handleDagResolve(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	_, ok := d.dags[cid]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "merkledag: not found")
		return
	}
	writeJSON(w, map[string]any{"Cid": map[string]any{"/": cid}, "RemPath": ""})
}

func (d *Daemon) handleDagStat(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	node, ok := d.dags[cid]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "merkledag: not found")
		return
	}
	writeJSON(w, map[string]any{
		"DagStats": []map[string]any{
			{"Cid": cid, "Size": len(node), "NumBlocks": 1},
		},
		"UniqueBlocks": 1,
		"TotalSize":    len(node),
	})
}

// carEnvelope is the fake's stand-in for a CAR archive: enough structure
// for dag/import to recover the root and the node.
type carEnvelope struct {
	Root string          `json:"root"`
	Node json.RawMessage `json:"node"`
}

func (d *Daemon) handleDagExport(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	node, ok := d.dags[cid]
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "merkledag: not found")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.ipld.car")
	json.NewEncoder(w).Encode(carEnvelope{Root: cid, Node: node})
}

func (d *Daemon) handleDagImport(w http.ResponseWriter, r *http.Request) {
	parts, err := readParts(r)
	if err != nil || len(parts) == 0 {
		writeError(w, http.StatusBadRequest, "file argument was not provided")
		return
	}
	var car carEnvelope
	if err := json.Unmarshal(parts[0].data, &car); err != nil {
		writeError(w, http.StatusBadRequest, "failed to decode car: "+err.Error())
		return
	}
	d.mu.Lock()
	d.dags[car.Root] = car.Node
	if r.URL.Query().Get("pin-roots") == "true" {
		d.pins[car.Root] = true
	}
	d.mu.Unlock()
	writeJSON(w, map[string]any{
		"Root": map[string]any{
			"Cid":         map[string]any{"/": car.Root},
			"PinErrorMsg": "",
		},
	})
}

func (d *Daemon) handlePinAdd(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	_, known := d.blocks[cid]
	if !known {
		_, known = d.dags[cid]
	}
	if known {
		d.pins[cid] = true
	}
	d.mu.Unlock()
	if !known {
		writeError(w, http.StatusInternalServerError, "merkledag: not found")
		return
	}
	writeJSON(w, map[string]any{"Pins": []string{cid}})
}

func (d *Daemon) handlePinLs(w http.ResponseWriter, r *http.Request) {
	arg := r.URL.Query().Get("arg")
	d.mu.Lock()
	keys := make(map[string]any)
	for cid := range d.pins {
		if arg != "" && cid != arg {
			continue
		}
		keys[cid] = map[string]any{"Type": "recursive"}
	}
	d.mu.Unlock()
	if arg != "" && len(keys) == 0 {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("path %q is not pinned", arg))
		return
	}
	writeJSON(w, map[string]any{"Keys": keys})
}

func (d *Daemon) handlePinRm(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	_, ok := d.pins[cid]
	delete(d.pins, cid)
	d.mu.Unlock()
	if !ok {
		writeError(w, http.StatusInternalServerError, "not pinned or pinned indirectly")
		return
	}
	writeJSON(w, map[string]any{"Pins": []string{cid}})
}

// handleFindPeer streams a progress line without a match first, then the
// line carrying the responses, mimicking the daemon's incremental replies.
func (d *Daemon) handleFindPeer(w http.ResponseWriter, r *http.Request) {
	peerID := r.URL.Query().Get("arg")
	d.mu.Lock()
	addrs, ok := d.peers[peerID]
	d.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.Encode(map[string]any{"Extra": "", "ID": "", "Responses": nil, "Type": 6})
	if ok {
		enc.Encode(map[string]any{
			"Extra": "", "ID": "", "Type": 2,
			"Responses": []map[string]any{{"ID": peerID, "Addrs": addrs}},
		})
	}
}

func (d *Daemon) handleFindProvs(w http.ResponseWriter, r *http.Request) {
	cid := r.URL.Query().Get("arg")
	d.mu.Lock()
	provs := append([]string(nil), d.providers[cid]...)
	d.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	for _, pid := range provs {
		enc.Encode(map[string]any{"Extra": "", "ID": pid, "Responses": nil, "Type": 4})
	}
}

func (d *Daemon) handleStatsBw(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"TotalIn": 0, "TotalOut": 0, "RateIn": 0.0, "RateOut": 0.0})
}

func (d *Daemon) handleStatsRepo(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	size := 0
	for _, b := range d.blocks {
		size += len(b)
	}
	objects := len(d.blocks) + len(d.dags)
	d.mu.Unlock()
	writeJSON(w, map[string]any{"RepoSize": size, "NumObjects": objects, "Version": "fs-repo@16"})
}

func (d *Daemon) handleSwarmAddrs(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	addrs := make(map[string]any, len(d.peers))
	for id, a := range d.peers {
		addrs[id] = a
	}
	d.mu.Unlock()
	writeJSON(w, map[string]any{"Addrs": addrs})
}

func (d *Daemon) handleSwarmPeers(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	peers := make([]map[string]any, 0, len(d.peers))
	for id, a := range d.peers {
		addr := ""
		if len(a) > 0 {
			addr = a[0]
		}
		peers = append(peers, map[string]any{"Peer": id, "Addr": addr})
	}
	d.mu.Unlock()
	writeJSON(w, map[string]any{"Peers": peers})
}

func (d *Daemon) handleSwarmConnect(w http.ResponseWriter, r *http.Request) {
	peer := r.URL.Query().Get("arg")
	writeJSON(w, map[string]any{"Strings": []string{"connect " + peer + " success"}})
}

func (d *Daemon) handleSwarmDisconnect(w http.ResponseWriter, r *http.Request) {
	peer := r.URL.Query().Get("arg")
	writeJSON(w, map[string]any{"Strings": []string{"disconnect " + peer + " success"}})
}

type uploadedPart struct {
	name string
	data []byte
}

// readParts drains a multipart body preserving part order.
func readParts(r *http.Request) ([]uploadedPart, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("read multipart body: %w", err)
	}
	var parts []uploadedPart
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart part: %w", err)
		}
		data, err := io.ReadAll(p)
		if err != nil {
			return nil, fmt.Errorf("read part data: %w", err)
		}
		parts = append(parts, uploadedPart{name: p.FileName(), data: data})
	}
	return parts, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	if code == 0 {
		code = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"Message": message, "Code": 0, "Type": "error"})
}

// fakeCID derives a deterministic stand-in CID from content.
func fakeCID(data []byte) string {
	sum := sha256.Sum256(data)
	return "Qm" + hex.EncodeToString(sum[:22])
}

func fakePeerID() string {
	return "12D3Koo" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
