package api

const streamDocsHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>WebSocket Stream — barboard</title>
  <style>
    *, *::before, *::after { box-sizing: border-box; }

    body {
      margin: 0;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", sans-serif;
      font-size: 14px;
      line-height: 1.65;
      background: #0d1117;
      color: #c9d1d9;
      display: flex;
      flex-direction: column;
      min-height: 100vh;
    }

    a { color: #58a6ff; text-decoration: none; }
    a:hover { text-decoration: underline; }

    nav {
      background: #161b22;
      border-bottom: 1px solid #30363d;
      padding: 0 24px;
      height: 48px;
      display: flex;
      align-items: center;
      gap: 24px;
      flex-shrink: 0;
    }
    nav .brand { font-weight: 600; font-size: 15px; color: #e6edf3; }
    nav .sep { color: #484f58; }
    nav .current { color: #e6edf3; font-weight: 500; }
    nav .back { font-size: 13px; }

    .layout {
      display: flex;
      flex: 1;
      max-width: 1100px;
      width: 100%;
      margin: 0 auto;
      padding: 0 16px;
    }

    aside {
      width: 220px;
      flex-shrink: 0;
      padding: 32px 16px 32px 0;
      position: sticky;
      top: 0;
      height: calc(100vh - 48px);
      overflow-y: auto;
    }
    aside h4 {
      margin: 0 0 8px;
      font-size: 11px;
      font-weight: 600;
      text-transform: uppercase;
      letter-spacing: .08em;
      color: #8b949e;
    }
    aside ul { list-style: none; margin: 0 0 24px; padding: 0; }
    aside ul li a {
      display: block;
      padding: 4px 8px;
      border-radius: 4px;
      font-size: 13px;
      color: #8b949e;
    }
    aside ul li a:hover { background: #21262d; color: #c9d1d9; text-decoration: none; }

    main { flex: 1; min-width: 0; padding: 32px 0 64px 32px; }
    main h1 { margin: 0 0 4px; font-size: 26px; color: #e6edf3; }
    main .subtitle { margin: 0 0 28px; color: #8b949e; }
    main h2 {
      margin: 36px 0 12px;
      padding-bottom: 6px;
      border-bottom: 1px solid #21262d;
      font-size: 19px;
      color: #e6edf3;
    }
    main h3 { margin: 20px 0 8px; font-size: 15px; color: #e6edf3; }

    code {
      background: #21262d;
      border-radius: 4px;
      padding: 1px 5px;
      font-family: "SFMono-Regular", Consolas, "Liberation Mono", Menlo, monospace;
      font-size: 13px;
      color: #c9d1d9;
    }
    pre {
      background: #161b22;
      border: 1px solid #30363d;
      border-radius: 6px;
      padding: 14px 16px;
      overflow-x: auto;
      margin: 0 0 20px;
    }
    pre code { background: none; padding: 0; }

    table {
      width: 100%;
      border-collapse: collapse;
      margin-bottom: 20px;
      font-size: 13px;
    }
    th, td {
      text-align: left;
      padding: 8px 12px;
      border-bottom: 1px solid #21262d;
      vertical-align: top;
    }
    th { color: #8b949e; font-weight: 600; }
    td code { white-space: nowrap; }

    .endpoint {
      display: flex;
      align-items: center;
      gap: 10px;
      background: #161b22;
      border: 1px solid #30363d;
      border-radius: 6px;
      padding: 10px 14px;
      margin-bottom: 20px;
      font-family: "SFMono-Regular", Consolas, "Liberation Mono", Menlo, monospace;
    }
    .endpoint .method { color: #3fb950; font-weight: 700; }
    .endpoint .path { color: #c9d1d9; }

    .callout {
      background: #161b22;
      border-left: 3px solid #1f6feb;
      border-radius: 0 6px 6px 0;
      padding: 12px 16px;
      margin-bottom: 20px;
      font-size: 13px;
    }
    .callout strong { color: #e6edf3; }
  </style>
</head>
<body>

<nav>
  <span class="brand">barboard</span>
  <span class="sep">/</span>
  <span class="current">WebSocket Stream</span>
  <a class="back" href="/docs">&larr; REST API Docs</a>
</nav>

<div class="layout">

  <aside>
    <h4>On this page</h4>
    <ul>
      <li><a href="#overview">Overview</a></li>
      <li><a href="#endpoint">Endpoint</a></li>
      <li><a href="#format">Event Format</a></li>
      <li><a href="#kinds">Event Kinds</a></li>
      <li><a href="#examples">Examples</a></li>
      <li><a href="#notes">Notes</a></li>
    </ul>
  </aside>

  <main>
    <h1>WebSocket Stream</h1>
    <p class="subtitle">Live session state changes pushed as JSON text frames.</p>

    <h2 id="overview">Overview</h2>
    <p>
      Every replay and chat mutation publishes an event: the playhead moved, playback
      started or paused, the transcript changed, or a replay ran through the last bar.
      Subscribing saves clients from polling <code>GET /api/v1/sessions/{id}</code>
      while a replay is running.
    </p>
    <div class="callout">
      <strong>Events are hints, not state.</strong> Each event carries the session
      revision; the snapshot endpoint is always authoritative. After a reconnect,
      fetch the snapshot once and resume from its revision.
    </div>

    <h2 id="endpoint">Endpoint</h2>
    <div class="endpoint">
      <span class="method">GET</span>
      <span class="path">/api/v1/stream</span>
    </div>

    <h3>Query Parameters</h3>
    <table>
      <thead>
        <tr><th>Name</th><th>Type</th><th>Required</th><th>Description</th></tr>
      </thead>
      <tbody>
        <tr>
          <td><code>session_id</code></td>
          <td>string</td>
          <td>No</td>
          <td>Only deliver events for this session. Omit to receive every session's events.</td>
        </tr>
      </tbody>
    </table>

    <h2 id="format">Event Format</h2>
    <p>One JSON object per text frame:</p>
    <pre><code>{
  "session_id": "2f0c2d6a-6d41-4d7c-9f0a-3f3a1c9b5e77",
  "kind": "frame",
  "frame": 41,
  "status": "playing",
  "turn_count": 2,
  "revision": 57,
  "at": "2023-06-14T19:02:11.829Z"
}</code></pre>
    <p>
      <code>revision</code> increases with every mutation of the session. A client that
      sees revision 57 can drop any event with a lower one.
    </p>

    <h2 id="kinds">Event Kinds</h2>
    <table>
      <thead>
        <tr><th>Kind</th><th>Published when</th></tr>
      </thead>
      <tbody>
        <tr><td><code>frame</code></td><td>The playhead moved: a replay tick, a manual step, or a seek.</td></tr>
        <tr><td><code>status</code></td><td>Playback started, paused, was reset, or the pace changed.</td></tr>
        <tr><td><code>transcript</code></td><td>Chat turns were appended or the transcript was cleared.</td></tr>
        <tr><td><code>completed</code></td><td>A playing replay reached the last bar and halted.</td></tr>
      </tbody>
    </table>

    <h2 id="examples">Examples</h2>
    <p>Follow one session with <code>websocat</code>:</p>
    <pre><code>websocat "ws://127.0.0.1:8487/api/v1/stream?session_id=$SESSION"</code></pre>
    <p>Browser client driving a chart refresh:</p>
    <pre><code>const ws = new WebSocket("ws://" + location.host + "/api/v1/stream?session_id=" + sessionId);
ws.onmessage = (msg) => {
  const evt = JSON.parse(msg.data);
  if (evt.kind === "frame" || evt.kind === "status") refreshChart(evt.frame);
  if (evt.kind === "completed") showDone();
};</code></pre>

    <h2 id="notes">Notes</h2>
    <ul>
      <li>Delivery is best-effort: a client that stops reading has its buffer dropped, not the server blocked.</li>
      <li>There is no subscription handshake; filtering happens via the query string only.</li>
      <li>Frames from the client are ignored; the socket is one-way after the upgrade.</li>
    </ul>
  </main>

</div>

</body>
</html>`
