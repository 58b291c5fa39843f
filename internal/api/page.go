package api

// dashboardHTML is the whole front end: one page, no build step. It talks
// to the JSON API, renders the replay chart with lightweight-charts from a
// CDN, and follows live session events over the WebSocket stream.
const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>barboard</title>
  <script src="https://unpkg.com/lightweight-charts@4.1.3/dist/lightweight-charts.standalone.production.js"></script>
  <style>
    *, *::before, *::after { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
      font-size: 14px;
      background: #131722;
      color: #d1d4dc;
      display: flex;
      flex-direction: column;
      height: 100vh;
    }
    header {
      display: flex;
      align-items: center;
      gap: 16px;
      padding: 10px 20px;
      background: #1e222d;
      border-bottom: 1px solid #2a2e39;
      flex-shrink: 0;
    }
    header .brand { font-size: 17px; font-weight: 700; color: #e6e9ef; }
    header .symbol { font-size: 15px; font-weight: 600; color: #26a69a; }
    header .badge {
      font-size: 11px;
      padding: 2px 8px;
      border-radius: 10px;
      border: 1px solid #2a2e39;
      color: #787b86;
    }
    header .badge.on { color: #26a69a; border-color: #26a69a; }
    header .spacer { flex: 1; }
    header a { color: #5d9cf5; font-size: 13px; text-decoration: none; }

    .main { display: flex; flex: 1; min-height: 0; }
    .left { flex: 1; display: flex; flex-direction: column; min-width: 0; }
    #chart { flex: 1; min-height: 0; }

    .controls {
      display: flex;
      align-items: center;
      gap: 10px;
      padding: 10px 20px;
      background: #1e222d;
      border-top: 1px solid #2a2e39;
      flex-shrink: 0;
    }
    .controls button {
      background: #2962ff;
      border: none;
      border-radius: 4px;
      color: #fff;
      font-size: 13px;
      padding: 6px 14px;
      cursor: pointer;
    }
    .controls button.secondary { background: #2a2e39; color: #d1d4dc; }
    .controls button:disabled { opacity: .4; cursor: default; }
    .controls input[type=range] { flex: 1; }
    .controls select {
      background: #2a2e39;
      color: #d1d4dc;
      border: 1px solid #363a45;
      border-radius: 4px;
      padding: 5px 8px;
      font-size: 13px;
    }
    .controls .frame { font-variant-numeric: tabular-nums; color: #787b86; min-width: 90px; text-align: right; }

    .chat {
      width: 360px;
      display: flex;
      flex-direction: column;
      background: #1e222d;
      border-left: 1px solid #2a2e39;
      flex-shrink: 0;
    }
    .chat .head {
      display: flex;
      align-items: center;
      justify-content: space-between;
      padding: 10px 14px;
      border-bottom: 1px solid #2a2e39;
      font-weight: 600;
      color: #e6e9ef;
    }
    .chat .head button {
      background: none;
      border: none;
      color: #787b86;
      font-size: 12px;
      cursor: pointer;
    }
    #transcript { flex: 1; overflow-y: auto; padding: 12px 14px; display: flex; flex-direction: column; gap: 10px; }
    .turn { max-width: 92%; padding: 8px 12px; border-radius: 8px; white-space: pre-wrap; word-wrap: break-word; }
    .turn.user { align-self: flex-end; background: #2962ff; color: #fff; }
    .turn.assistant { align-self: flex-start; background: #2a2e39; }
    .turn.error { align-self: center; background: rgba(239, 83, 80, .15); color: #ef5350; font-size: 13px; }

    .samples { padding: 0 14px 8px; display: flex; flex-wrap: wrap; gap: 6px; }
    .samples button {
      background: #2a2e39;
      border: 1px solid #363a45;
      border-radius: 12px;
      color: #9aa0ab;
      font-size: 11px;
      padding: 3px 10px;
      cursor: pointer;
      text-align: left;
    }
    .ask { display: flex; gap: 8px; padding: 10px 14px; border-top: 1px solid #2a2e39; }
    .ask input {
      flex: 1;
      background: #131722;
      border: 1px solid #363a45;
      border-radius: 4px;
      color: #d1d4dc;
      padding: 8px 10px;
      font-size: 13px;
    }
    .ask button {
      background: #2962ff;
      border: none;
      border-radius: 4px;
      color: #fff;
      padding: 0 16px;
      cursor: pointer;
    }
    .ask button:disabled { opacity: .4; }
  </style>
</head>
<body>

<header>
  <span class="brand">barboard</span>
  <span class="symbol" id="symbol"></span>
  <span class="badge" id="bars-badge"></span>
  <span class="badge" id="ai-badge">AI</span>
  <span class="spacer"></span>
  <button class="badge" id="export-btn" style="cursor:pointer;background:none">Export HTML</button>
  <a href="/docs">API docs</a>
</header>

<div class="main">
  <div class="left">
    <div id="chart"></div>
    <div class="controls">
      <button id="play-btn">Play</button>
      <button id="step-btn" class="secondary">Step</button>
      <button id="reset-btn" class="secondary">Reset</button>
      <input type="range" id="seek" min="0" max="0" value="0" />
      <span class="frame" id="frame-label">&ndash;</span>
      <select id="interval">
        <option value="100">100 ms</option>
        <option value="200">200 ms</option>
        <option value="300" selected>300 ms</option>
        <option value="500">500 ms</option>
        <option value="1000">1 s</option>
      </select>
    </div>
  </div>

  <div class="chat">
    <div class="head">
      <span>Ask the AI</span>
      <button id="clear-btn">clear</button>
    </div>
    <div id="transcript"></div>
    <div class="samples" id="samples"></div>
    <div class="ask">
      <input id="question" placeholder="Ask about the visible data&hellip;" />
      <button id="ask-btn">Ask</button>
    </div>
  </div>
</div>

<script>
(function () {
  "use strict";

  var sessionId = null;
  var playing = false;
  var totalBars = 0;
  var supLines = [];
  var resLines = [];

  var chartEl = document.getElementById("chart");
  var chart = LightweightCharts.createChart(chartEl, {
    layout: { background: { color: "#131722" }, textColor: "#d1d4dc" },
    grid: {
      vertLines: { color: "rgba(42, 46, 57, 0.5)" },
      horzLines: { color: "rgba(42, 46, 57, 0.5)" }
    },
    timeScale: { borderColor: "#2a2e39" },
    rightPriceScale: { borderColor: "#2a2e39" },
    autoSize: true
  });
  var candles = chart.addCandlestickSeries({
    upColor: "#26a69a", downColor: "#ef5350",
    borderUpColor: "#26a69a", borderDownColor: "#ef5350",
    wickUpColor: "#26a69a", wickDownColor: "#ef5350"
  });
  var volume = chart.addHistogramSeries({
    priceFormat: { type: "volume" },
    priceScaleId: ""
  });
  volume.priceScale().applyOptions({ scaleMargins: { top: 0.82, bottom: 0 } });

  function api(path, opts) {
    return fetch(path, opts).then(function (r) {
      if (!r.ok) {
        return r.json().catch(function () { return {}; }).then(function (e) {
          throw new Error(e.detail || e.message || r.statusText);
        });
      }
      return r.json();
    });
  }

  function applyState(snap) {
    playing = snap.status === "playing";
    totalBars = snap.total_bars;
    document.getElementById("play-btn").textContent = playing ? "Pause" : "Play";
    document.getElementById("step-btn").disabled = playing || totalBars === 0;
    document.getElementById("play-btn").disabled = totalBars === 0;
    document.getElementById("reset-btn").disabled = totalBars === 0;
    var seek = document.getElementById("seek");
    seek.max = Math.max(totalBars - 1, 0);
    seek.value = snap.frame;
    document.getElementById("frame-label").textContent =
      totalBars === 0 ? "no bars" : (snap.frame + 1) + " / " + totalBars;
  }

  var refreshing = false;
  var queued = false;
  function refreshChart() {
    if (refreshing) { queued = true; return; }
    refreshing = true;
    api("/api/v1/sessions/" + sessionId + "/chart").then(function (fig) {
      candles.setData(fig.candles || []);
      volume.setData(fig.volume || []);
      candles.setMarkers(fig.markers || []);

      supLines.concat(resLines).forEach(function (l) { candles.removePriceLine(l); });
      supLines = []; resLines = [];
      var supBands = fig.support || [];
      var sup = supBands[supBands.length - 1];
      if (sup) {
        supLines.push(candles.createPriceLine({ price: sup.low, color: "#26a69a", lineWidth: 1, lineStyle: LightweightCharts.LineStyle.Dashed, title: "S" }));
        if (sup.high !== sup.low) {
          supLines.push(candles.createPriceLine({ price: sup.high, color: "#26a69a", lineWidth: 1, lineStyle: LightweightCharts.LineStyle.Dotted, title: "S" }));
        }
      }
      var resBands = fig.resistance || [];
      var res = resBands[resBands.length - 1];
      if (res) {
        resLines.push(candles.createPriceLine({ price: res.high, color: "#ef5350", lineWidth: 1, lineStyle: LightweightCharts.LineStyle.Dashed, title: "R" }));
        if (res.low !== res.high) {
          resLines.push(candles.createPriceLine({ price: res.low, color: "#ef5350", lineWidth: 1, lineStyle: LightweightCharts.LineStyle.Dotted, title: "R" }));
        }
      }
      chart.timeScale().fitContent();
    }).catch(function (err) {
      console.error("chart refresh failed:", err);
    }).then(function () {
      refreshing = false;
      if (queued) { queued = false; refreshChart(); }
    });
  }

  function renderTranscript(turns) {
    var box = document.getElementById("transcript");
    box.innerHTML = "";
    turns.forEach(function (t) {
      var div = document.createElement("div");
      div.className = "turn " + t.role;
      div.textContent = t.content;
      box.appendChild(div);
    });
    box.scrollTop = box.scrollHeight;
  }

  function chatError(message) {
    var box = document.getElementById("transcript");
    var div = document.createElement("div");
    div.className = "turn error";
    div.textContent = message;
    box.appendChild(div);
    box.scrollTop = box.scrollHeight;
  }

  function refreshTranscript() {
    api("/api/v1/sessions/" + sessionId + "/chat").then(function (resp) {
      renderTranscript(resp.turns);
    }).catch(function (err) {
      console.error("transcript refresh failed:", err);
    });
  }

  function connectStream() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/api/v1/stream?session_id=" + sessionId);
    ws.onmessage = function (msg) {
      var evt;
      try { evt = JSON.parse(msg.data); } catch (e) { return; }
      if (evt.kind === "transcript") { refreshTranscript(); return; }
      applyState({ status: evt.status, frame: evt.frame, total_bars: totalBars });
      refreshChart();
    };
    ws.onclose = function () { setTimeout(connectStream, 2000); };
  }

  function replayAction(action, body) {
    return api("/api/v1/sessions/" + sessionId + "/replay/" + action, {
      method: "POST",
      headers: body ? { "Content-Type": "application/json" } : undefined,
      body: body ? JSON.stringify(body) : undefined
    }).then(function (snap) {
      applyState(snap);
      refreshChart();
    }).catch(function (err) {
      console.error(action + " failed:", err);
    });
  }

  document.getElementById("play-btn").addEventListener("click", function () {
    replayAction(playing ? "pause" : "start");
  });
  document.getElementById("step-btn").addEventListener("click", function () {
    replayAction("step");
  });
  document.getElementById("reset-btn").addEventListener("click", function () {
    replayAction("reset");
  });
  document.getElementById("seek").addEventListener("change", function (e) {
    replayAction("seek", { frame: parseInt(e.target.value, 10) });
  });
  document.getElementById("interval").addEventListener("change", function (e) {
    replayAction("interval", { interval_ms: parseInt(e.target.value, 10) });
  });

  function ask(question) {
    var input = document.getElementById("question");
    var btn = document.getElementById("ask-btn");
    if (!question) { return; }
    input.value = "";
    btn.disabled = true;
    api("/api/v1/sessions/" + sessionId + "/chat/ask", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ question: question })
    }).then(function (resp) {
      renderTranscript(resp.turns);
    }).catch(function (err) {
      refreshTranscript();
      chatError(err.message);
    }).then(function () {
      btn.disabled = false;
    });
  }

  document.getElementById("ask-btn").addEventListener("click", function () {
    ask(document.getElementById("question").value.trim());
  });
  document.getElementById("question").addEventListener("keydown", function (e) {
    if (e.key === "Enter") { ask(e.target.value.trim()); }
  });
  document.getElementById("clear-btn").addEventListener("click", function () {
    api("/api/v1/sessions/" + sessionId + "/chat", { method: "DELETE" }).then(function () {
      renderTranscript([]);
    }).catch(function (err) {
      console.error("clear failed:", err);
    });
  });
  document.getElementById("export-btn").addEventListener("click", function () {
    api("/api/v1/exports", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ session_id: sessionId, format: "html" })
    }).then(function (resp) {
      window.open(resp.url, "_blank");
    }).catch(function (err) {
      console.error("export failed:", err);
    });
  });

  api("/api/v1/health").then(function (h) {
    document.getElementById("symbol").textContent = h.symbol;
    document.getElementById("bars-badge").textContent = h.bars + " bars";
    var ai = document.getElementById("ai-badge");
    ai.textContent = h.ai_configured ? "AI: " + h.ai_provider : "AI off";
    ai.className = h.ai_configured ? "badge on" : "badge";
    return api("/api/v1/sessions", { method: "POST" });
  }).then(function (snap) {
    sessionId = snap.id;
    applyState(snap);
    refreshChart();
    connectStream();
    return api("/api/v1/chat/samples");
  }).then(function (resp) {
    var box = document.getElementById("samples");
    resp.questions.forEach(function (q) {
      var btn = document.createElement("button");
      btn.textContent = q;
      btn.addEventListener("click", function () { ask(q); });
      box.appendChild(btn);
    });
  }).catch(function (err) {
    console.error("init failed:", err);
    chatError("dashboard init failed: " + err.message);
  });
})();
</script>

</body>
</html>`
